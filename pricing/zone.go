package pricing

import "slices"

const (
	ZoneLocal   = "local"
	ZoneZonal   = "zonal"
	ZoneMetro   = "metro"
	ZoneROI     = "roi"
	ZoneSpecial = "special"
)

var (
	metroPrefixes   = []string{"110", "400", "560", "600", "700", "500"}
	specialPrefixes = []string{"79", "78", "18", "19"}

	baseDays = map[string]int{
		ZoneLocal:   1,
		ZoneZonal:   2,
		ZoneMetro:   3,
		ZoneROI:     5,
		ZoneSpecial: 7,
	}
)

// DefaultRule is used by quotes when no active pricing rule matches.
var DefaultRule = Rule{BaseRate: 50, PerKgRate: 30, FuelSurchargePercent: 15, GSTPercent: 18, MinWeightKG: 0.5}

type Rule struct {
	BaseRate             float64
	PerKgRate            float64
	FuelSurchargePercent float64
	GSTPercent           float64
	MinWeightKG          float64
}

// DetermineZone classifies a lane from its two pincodes.
func DetermineZone(originPincode, destinationPincode string) string {
	originPrefix := prefix(originPincode, 3)
	destPrefix := prefix(destinationPincode, 3)

	if originPrefix == destPrefix {
		return ZoneLocal
	}
	if prefix(originPincode, 2) == prefix(destinationPincode, 2) {
		return ZoneZonal
	}
	if slices.Contains(metroPrefixes, originPrefix) && slices.Contains(metroPrefixes, destPrefix) {
		return ZoneMetro
	}
	if slices.Contains(specialPrefixes, prefix(destinationPincode, 2)) {
		return ZoneSpecial
	}
	return ZoneROI
}

// EstimatedDays returns the delivery estimate for a zone and service level.
func EstimatedDays(zone, serviceType string) int {
	days, ok := baseDays[zone]
	if !ok {
		days = 5
	}
	switch serviceType {
	case "same_day":
		days = 0
	case "overnight":
		days = 1
	case "express":
		days--
	}
	return max(days, 0)
}

type QuoteResult struct {
	BaseAmount      float64
	WeightCharges   float64
	FuelSurcharge   float64
	InsuranceAmount float64
	GSTAmount       float64
	TotalAmount     float64
}

// QuoteFor prices a shipment against rule. Insurance of 1% applies above a declared value of 5000.
func QuoteFor(rule Rule, weightKG, declaredValue float64) QuoteResult {
	minWeight := rule.MinWeightKG
	if minWeight <= 0 {
		minWeight = 0.5
	}
	weightCharges := ChargeableWeight(weightKG, minWeight) * rule.PerKgRate
	subtotal := rule.BaseRate + weightCharges
	fuel := subtotal * (rule.FuelSurchargePercent / 100)

	var insurance float64
	if declaredValue > 5000 {
		insurance = declaredValue * 0.01
	}

	preTax := subtotal + fuel + insurance
	gst := preTax * (rule.GSTPercent / 100)
	return QuoteResult{
		BaseAmount:      rule.BaseRate,
		WeightCharges:   weightCharges,
		FuelSurcharge:   fuel,
		InsuranceAmount: insurance,
		GSTAmount:       gst,
		TotalAmount:     preTax + gst,
	}
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
