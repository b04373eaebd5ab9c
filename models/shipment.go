package models

import "time"

type ShipmentStatus string

const (
	ShipmentPending        ShipmentStatus = "pending"
	ShipmentPickedUp       ShipmentStatus = "picked_up"
	ShipmentInTransit      ShipmentStatus = "in_transit"
	ShipmentOutForDelivery ShipmentStatus = "out_for_delivery"
	ShipmentDelivered      ShipmentStatus = "delivered"
	ShipmentCancelled      ShipmentStatus = "cancelled"
	ShipmentReturned       ShipmentStatus = "returned"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPending, ShipmentPickedUp, ShipmentInTransit, ShipmentOutForDelivery,
		ShipmentDelivered, ShipmentCancelled, ShipmentReturned:
		return true
	}
	return false
}

type ShipmentType string

const (
	ShipmentDocument ShipmentType = "document"
	ShipmentParcel   ShipmentType = "parcel"
	ShipmentFreight  ShipmentType = "freight"
	ShipmentExpress  ShipmentType = "express"
)

func (t ShipmentType) Valid() bool {
	switch t {
	case ShipmentDocument, ShipmentParcel, ShipmentFreight, ShipmentExpress:
		return true
	}
	return false
}

type Address struct {
	Name         string `json:"name" bson:"name"`
	Phone        string `json:"phone" bson:"phone"`
	AddressLine1 string `json:"address_line1" bson:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Pincode      string `json:"pincode" bson:"pincode"`
	Country      string `json:"country" bson:"country"`
}

type Dimensions struct {
	Length float64 `json:"length" bson:"length"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// TrackingEvent is one entry of the append-only status history.
type TrackingEvent struct {
	Status      ShipmentStatus `json:"status" bson:"status"`
	Location    string         `json:"location" bson:"location"`
	Timestamp   time.Time      `json:"timestamp" bson:"timestamp"`
	Description string         `json:"description" bson:"description"`
	UpdatedBy   string         `json:"updated_by" bson:"updated_by"`
}

// ShipmentPricing is the charge snapshot copied from the consignment at creation.
type ShipmentPricing struct {
	BaseRate      float64 `json:"base_rate" bson:"base_rate"`
	DocketCharges float64 `json:"docket_charges" bson:"docket_charges"`
	OdaCharge     float64 `json:"oda_charge" bson:"oda_charge"`
	FOV           float64 `json:"fov" bson:"fov"`
	Total         float64 `json:"total" bson:"total"`
}

type Shipment struct {
	ID                  string           `json:"id" bson:"_id"`
	TrackingNumber      string           `json:"tracking_number" bson:"tracking_number"`
	DocketNo            string           `json:"docket_no" bson:"docket_no"`
	CustomerID          string           `json:"customer_id" bson:"customer_id"`
	ShipmentType        ShipmentType     `json:"shipment_type" bson:"shipment_type"`
	Origin              Address          `json:"origin" bson:"origin"`
	Destination         Address          `json:"destination" bson:"destination"`
	WeightKG            float64          `json:"weight_kg" bson:"weight_kg"`
	Dimensions          *Dimensions      `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	DeclaredValue       float64          `json:"declared_value" bson:"declared_value"`
	Description         string           `json:"description" bson:"description"`
	SpecialInstructions string           `json:"special_instructions,omitempty" bson:"special_instructions,omitempty"`
	Status              ShipmentStatus   `json:"status" bson:"status"`
	TrackingHistory     []TrackingEvent  `json:"tracking_history" bson:"tracking_history"`
	Pricing             *ShipmentPricing `json:"pricing,omitempty" bson:"pricing,omitempty"`
	ConsignmentID       string           `json:"consignment_id,omitempty" bson:"consignment_id,omitempty"`
	InvoiceID           string           `json:"invoice_id,omitempty" bson:"invoice_id,omitempty"`
	CreatedBy           string           `json:"created_by" bson:"created_by"`
	CreatedAt           time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt           *time.Time       `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// NewShipment is the payload of a shipment booked without a consignment.
type NewShipment struct {
	CustomerID          string       `json:"customer_id"`
	ShipmentType        ShipmentType `json:"shipment_type"`
	Origin              Address      `json:"origin"`
	Destination         Address      `json:"destination"`
	WeightKG            float64      `json:"weight_kg"`
	Dimensions          *Dimensions  `json:"dimensions,omitempty"`
	DeclaredValue       float64      `json:"declared_value"`
	Description         string       `json:"description"`
	SpecialInstructions string       `json:"special_instructions"`
	DocketNo            string       `json:"docket_no"`
}

// ShipmentSync is the subset of a shipment rewritten when its consignment is edited.
type ShipmentSync struct {
	Destination Address
	WeightKG    float64
	Dimensions  *Dimensions
	Description string
	DocketNo    string
}

type ShipmentFilter struct {
	Status     ShipmentStatus
	CustomerID string
	Skip       int64
	Limit      int64
}

// TrackingResult is the public view returned by a tracking lookup.
type TrackingResult struct {
	TrackingNumber  string          `json:"tracking_number"`
	DocketNo        string          `json:"docket_no"`
	ConsignmentNo   string          `json:"consignment_no,omitempty"`
	Status          ShipmentStatus  `json:"status"`
	Origin          Address         `json:"origin"`
	Destination     Address         `json:"destination"`
	TrackingHistory []TrackingEvent `json:"tracking_history"`
}
