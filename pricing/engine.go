// Package pricing turns a charge schedule into amounts. Nothing here rounds;
// callers round with Round2 when they persist or display a value.
package pricing

import "github.com/shopspring/decimal"

// Charges are the charge components recorded on a consignment.
// FuelChargePercent and GSTPercent are percentages, the rest are amounts.
type Charges struct {
	BaseRate          float64
	DocketCharges     float64
	OdaCharge         float64
	FOV               float64
	FuelChargePercent float64
	GSTPercent        float64
}

type Breakdown struct {
	Subtotal         float64
	FuelAmount       float64
	SubtotalWithFuel float64
	GSTAmount        float64
	TotalAmount      float64
}

// Compute applies base -> fuel surcharge -> GST.
func Compute(c Charges) Breakdown {
	subtotal := ConsignmentTotal(c)
	fuel := subtotal * (c.FuelChargePercent / 100)
	withFuel := subtotal + fuel
	gst := withFuel * (c.GSTPercent / 100)
	return Breakdown{
		Subtotal:         subtotal,
		FuelAmount:       fuel,
		SubtotalWithFuel: withFuel,
		GSTAmount:        gst,
		TotalAmount:      withFuel + gst,
	}
}

// ConsignmentTotal is the pre-fuel, pre-tax total stored on the consignment record.
func ConsignmentTotal(c Charges) float64 {
	return c.BaseRate + c.DocketCharges + c.OdaCharge + c.FOV
}

// ChargeableWeight is the greater of actual and minimum billable weight.
func ChargeableWeight(actual, minimum float64) float64 {
	if actual > minimum {
		return actual
	}
	return minimum
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
