package services

import (
	"fmt"
	"strconv"
	"strings"

	"rrlogistics/models"
	"rrlogistics/pricing"
)

const defaultCountry = "India"

func chargesOf(d models.ConsignmentDetails) pricing.Charges {
	return pricing.Charges{
		BaseRate:          d.BaseRate,
		DocketCharges:     d.DocketCharges,
		OdaCharge:         d.OdaCharge,
		FOV:               d.FOV,
		FuelChargePercent: d.FuelCharge,
		GSTPercent:        d.GST,
	}
}

// ShipmentTypeFor classifies by weight: up to 0.5kg document, up to 5kg parcel, freight above.
func ShipmentTypeFor(weightKG float64) models.ShipmentType {
	switch {
	case weightKG <= 0.5:
		return models.ShipmentDocument
	case weightKG <= 5:
		return models.ShipmentParcel
	default:
		return models.ShipmentFreight
	}
}

// ParseDimensions reads an "L*B*H" box string. It returns nil for anything it cannot read.
func ParseDimensions(s string) *models.Dimensions {
	parts := strings.Split(strings.TrimSpace(s), "*")
	if len(parts) < 3 {
		return nil
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	return &models.Dimensions{Length: v[0], Width: v[1], Height: v[2]}
}

// cityOf prefers the explicit city and falls back to the last comma separated part of the free text destination.
func cityOf(d models.ConsignmentDetails) string {
	if d.DestinationCity != "" {
		return d.DestinationCity
	}
	parts := strings.Split(d.Destination, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

func docketSuffix(docketNo string) string {
	if docketNo == "" {
		return ""
	}
	return fmt.Sprintf(" (Docket: %s)", docketNo)
}

func originAddress(user *models.AppUser) models.Address {
	if user == nil {
		user = &models.AppUser{}
	}
	return models.Address{
		Name:         firstNonEmpty(user.FullName, user.Email, "Sender"),
		Phone:        user.Phone,
		AddressLine1: firstNonEmpty(user.Address, "Address Not Provided"),
		City:         firstNonEmpty(user.City, "City"),
		State:        firstNonEmpty(user.State, "State"),
		Pincode:      firstNonEmpty(user.Pincode, "000000"),
		Country:      defaultCountry,
	}
}

// destinationAddress builds the consignee address. Fields the consignment does not
// carry are taken from current, so an edit never drops data such as the phone.
func destinationAddress(d models.ConsignmentDetails, current models.Address) models.Address {
	return models.Address{
		Name:         firstNonEmpty(d.Name, current.Name, "Consignee"),
		Phone:        current.Phone,
		AddressLine1: firstNonEmpty(d.Destination, current.AddressLine1, "Destination Address"),
		City:         firstNonEmpty(cityOf(d), current.City),
		State:        firstNonEmpty(d.DestinationState, current.State),
		Pincode:      firstNonEmpty(d.DestinationPincode, current.Pincode),
		Country:      defaultCountry,
	}
}

func billingAddress(user *models.AppUser) string {
	if user == nil || (user.Address == "" && user.City == "" && user.State == "" && user.Pincode == "") {
		return "Address not provided"
	}
	return fmt.Sprintf("%s, %s, %s - %s", user.Address, user.City, user.State, user.Pincode)
}

func invoiceItem(c *models.Consignment, shipmentID, trackingNumber string, b pricing.Breakdown) models.InvoiceItem {
	return models.InvoiceItem{
		ShipmentID:     shipmentID,
		TrackingNumber: trackingNumber,
		DocketNo:       c.DocketNo,
		Description: fmt.Sprintf("Consignment %s%s - %s to %s",
			c.ConsignmentNo, docketSuffix(c.DocketNo),
			firstNonEmpty(c.ProductName, "Package"), firstNonEmpty(c.Destination, "Destination")),
		WeightKG: c.Weight,
		Amount:   pricing.Round2(b.SubtotalWithFuel),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
