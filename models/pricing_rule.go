package models

import "time"

// PricingRule is a weight based tariff, either zone default or assigned to a user.
type PricingRule struct {
	ID                   string     `json:"id" bson:"_id"`
	Name                 string     `json:"name" bson:"name"`
	Zone                 string     `json:"zone" bson:"zone"`
	ShipmentType         string     `json:"shipment_type" bson:"shipment_type"`
	ServiceType          string     `json:"service_type" bson:"service_type"`
	BaseRate             float64    `json:"base_rate" bson:"base_rate"`
	PerKgRate            float64    `json:"per_kg_rate" bson:"per_kg_rate"`
	MinWeightKG          float64    `json:"min_weight_kg" bson:"min_weight_kg"`
	MaxWeightKG          *float64   `json:"max_weight_kg,omitempty" bson:"max_weight_kg,omitempty"`
	FuelSurchargePercent float64    `json:"fuel_surcharge_percent" bson:"fuel_surcharge_percent"`
	GSTPercent           float64    `json:"gst_percent" bson:"gst_percent"`
	IsActive             bool       `json:"is_active" bson:"is_active"`
	CreatedBy            string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt            time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

type PricingRulePatch struct {
	Name                 *string  `json:"name"`
	BaseRate             *float64 `json:"base_rate"`
	PerKgRate            *float64 `json:"per_kg_rate"`
	MinWeightKG          *float64 `json:"min_weight_kg"`
	FuelSurchargePercent *float64 `json:"fuel_surcharge_percent"`
	GSTPercent           *float64 `json:"gst_percent"`
	IsActive             *bool    `json:"is_active"`
}

func (p PricingRulePatch) Apply(r *PricingRule) {
	setString(&r.Name, p.Name)
	setFloat(&r.BaseRate, p.BaseRate)
	setFloat(&r.PerKgRate, p.PerKgRate)
	setFloat(&r.MinWeightKG, p.MinWeightKG)
	setFloat(&r.FuelSurchargePercent, p.FuelSurchargePercent)
	setFloat(&r.GSTPercent, p.GSTPercent)
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
}

// PricingRuleQuery matches active rules; empty fields are not filtered on.
type PricingRuleQuery struct {
	Zone         string
	ShipmentType string
	ServiceType  string
}

type QuoteRequest struct {
	OriginPincode      string  `json:"origin_pincode"`
	DestinationPincode string  `json:"destination_pincode"`
	WeightKG           float64 `json:"weight_kg"`
	ShipmentType       string  `json:"shipment_type"`
	ServiceType        string  `json:"service_type"`
	DeclaredValue      float64 `json:"declared_value"`
}

type Quote struct {
	BaseAmount      float64            `json:"base_amount"`
	WeightCharges   float64            `json:"weight_charges"`
	FuelSurcharge   float64            `json:"fuel_surcharge"`
	GSTAmount       float64            `json:"gst_amount"`
	InsuranceAmount float64            `json:"insurance_amount"`
	TotalAmount     float64            `json:"total_amount"`
	Zone            string             `json:"zone"`
	EstimatedDays   int                `json:"estimated_days"`
	Breakdown       map[string]float64 `json:"breakdown"`
}
