package models

import "time"

type ConsignmentZone string

const (
	ZoneLocal ConsignmentZone = "LOCAL"
	ZoneZonal ConsignmentZone = "ZONAL"
	ZoneMetro ConsignmentZone = "METRO"
	ZoneROI   ConsignmentZone = "ROI"
	ZoneWest  ConsignmentZone = "WEST"
	ZoneNorth ConsignmentZone = "NORTH"
	ZoneSouth ConsignmentZone = "SOUTH"
	ZoneEast  ConsignmentZone = "EAST"
)

func (z ConsignmentZone) Valid() bool {
	switch z {
	case ZoneLocal, ZoneZonal, ZoneMetro, ZoneROI, ZoneWest, ZoneNorth, ZoneSouth, ZoneEast:
		return true
	}
	return false
}

// CascadeStatus tracks how far the shipment/invoice cascade of a consignment got.
type CascadeStatus string

const (
	CascadePending  CascadeStatus = "pending"
	CascadeLinked   CascadeStatus = "linked"
	CascadeDegraded CascadeStatus = "degraded"
	CascadeFailed   CascadeStatus = "failed"
)

// ConsignmentDetails holds every field an operator may set on create or edit.
type ConsignmentDetails struct {
	Date               string          `json:"date" bson:"date"`
	Name               string          `json:"name" bson:"name"`
	UserID             string          `json:"user_id" bson:"user_id"`
	Destination        string          `json:"destination" bson:"destination"`
	DestinationCity    string          `json:"destination_city" bson:"destination_city"`
	DestinationState   string          `json:"destination_state" bson:"destination_state"`
	DestinationPincode string          `json:"destination_pincode" bson:"destination_pincode"`
	Pieces             int             `json:"pieces" bson:"pieces"`
	Weight             float64         `json:"weight" bson:"weight"`
	ProductName        string          `json:"product_name" bson:"product_name"`
	Value              float64         `json:"value" bson:"value"`
	DeliveryPartner    string          `json:"delivery_partner" bson:"delivery_partner"`
	ServiceType        string          `json:"service_type" bson:"service_type"`
	Mode               string          `json:"mode" bson:"mode"`
	Region             string          `json:"region" bson:"region"`
	Zone               ConsignmentZone `json:"zone" bson:"zone"`
	RateCardID         string          `json:"rate_card_id" bson:"rate_card_id"`
	BaseRate           float64         `json:"base_rate" bson:"base_rate"`
	DocketCharges      float64         `json:"docket_charges" bson:"docket_charges"`
	OdaCharge          float64         `json:"oda_charge" bson:"oda_charge"`
	FOV                float64         `json:"fov" bson:"fov"`
	FuelCharge         float64         `json:"fuel_charge" bson:"fuel_charge"`
	GST                float64         `json:"gst" bson:"gst"`
	Box1Dimensions     string          `json:"box1_dimensions" bson:"box1_dimensions"`
	Box2Dimensions     string          `json:"box2_dimensions" bson:"box2_dimensions"`
	Box3Dimensions     string          `json:"box3_dimensions" bson:"box3_dimensions"`
	Remarks            string          `json:"remarks" bson:"remarks"`
	DocketNo           string          `json:"docket_no" bson:"docket_no"`
}

type Consignment struct {
	ID            string `json:"id" bson:"_id"`
	SrNo          int64  `json:"sr_no" bson:"sr_no"`
	ConsignmentNo string `json:"consignment_no" bson:"consignment_no"`

	ConsignmentDetails `bson:",inline"`

	// LegacyDocketNo is the camel-cased alias written by older clients.
	LegacyDocketNo string `json:"-" bson:"docketNo,omitempty"`

	Total float64 `json:"total" bson:"total"`

	ShipmentID      string        `json:"shipment_id,omitempty" bson:"shipment_id,omitempty"`
	InvoiceID       string        `json:"invoice_id,omitempty" bson:"invoice_id,omitempty"`
	InvoiceNo       string        `json:"invoice_no,omitempty" bson:"invoice_no,omitempty"`
	CascadeStatus   CascadeStatus `json:"cascade_status" bson:"cascade_status"`
	CascadeAttempts int           `json:"cascade_attempts" bson:"cascade_attempts"`

	CreatedBy string     `json:"created_by" bson:"created_by"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Linked reports whether both dependent records are attached.
func (c *Consignment) Linked() bool {
	return c.ShipmentID != "" && c.InvoiceID != ""
}

// ConsignmentLinks is a partial write of the cascade back-references. Empty
// fields are left untouched.
type ConsignmentLinks struct {
	ShipmentID      string
	InvoiceID       string
	InvoiceNo       string
	CascadeStatus   CascadeStatus
	CascadeAttempts *int
}

// ConsignmentPatch carries a full (PUT) or partial (PATCH) edit. Nil fields are not changed.
type ConsignmentPatch struct {
	Date               *string          `json:"date"`
	Name               *string          `json:"name"`
	UserID             *string          `json:"user_id"`
	Destination        *string          `json:"destination"`
	DestinationCity    *string          `json:"destination_city"`
	DestinationState   *string          `json:"destination_state"`
	DestinationPincode *string          `json:"destination_pincode"`
	Pieces             *int             `json:"pieces"`
	Weight             *float64         `json:"weight"`
	ProductName        *string          `json:"product_name"`
	Value              *float64         `json:"value"`
	DeliveryPartner    *string          `json:"delivery_partner"`
	ServiceType        *string          `json:"service_type"`
	Mode               *string          `json:"mode"`
	Region             *string          `json:"region"`
	Zone               *ConsignmentZone `json:"zone"`
	RateCardID         *string          `json:"rate_card_id"`
	BaseRate           *float64         `json:"base_rate"`
	DocketCharges      *float64         `json:"docket_charges"`
	OdaCharge          *float64         `json:"oda_charge"`
	FOV                *float64         `json:"fov"`
	FuelCharge         *float64         `json:"fuel_charge"`
	GST                *float64         `json:"gst"`
	Box1Dimensions     *string          `json:"box1_dimensions"`
	Box2Dimensions     *string          `json:"box2_dimensions"`
	Box3Dimensions     *string          `json:"box3_dimensions"`
	Remarks            *string          `json:"remarks"`
	DocketNo           *string          `json:"docket_no"`
}

// Apply copies every non-nil field onto d.
func (p ConsignmentPatch) Apply(d *ConsignmentDetails) {
	setString(&d.Date, p.Date)
	setString(&d.Name, p.Name)
	setString(&d.UserID, p.UserID)
	setString(&d.Destination, p.Destination)
	setString(&d.DestinationCity, p.DestinationCity)
	setString(&d.DestinationState, p.DestinationState)
	setString(&d.DestinationPincode, p.DestinationPincode)
	if p.Pieces != nil {
		d.Pieces = *p.Pieces
	}
	setFloat(&d.Weight, p.Weight)
	setString(&d.ProductName, p.ProductName)
	setFloat(&d.Value, p.Value)
	setString(&d.DeliveryPartner, p.DeliveryPartner)
	setString(&d.ServiceType, p.ServiceType)
	setString(&d.Mode, p.Mode)
	setString(&d.Region, p.Region)
	if p.Zone != nil {
		d.Zone = *p.Zone
	}
	setString(&d.RateCardID, p.RateCardID)
	setFloat(&d.BaseRate, p.BaseRate)
	setFloat(&d.DocketCharges, p.DocketCharges)
	setFloat(&d.OdaCharge, p.OdaCharge)
	setFloat(&d.FOV, p.FOV)
	setFloat(&d.FuelCharge, p.FuelCharge)
	setFloat(&d.GST, p.GST)
	setString(&d.Box1Dimensions, p.Box1Dimensions)
	setString(&d.Box2Dimensions, p.Box2Dimensions)
	setString(&d.Box3Dimensions, p.Box3Dimensions)
	setString(&d.Remarks, p.Remarks)
	setString(&d.DocketNo, p.DocketNo)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

type ConsignmentFilter struct {
	StartDate string
	EndDate   string
	Zone      ConsignmentZone
	UserID    string
	InvoiceID string
	Skip      int64
	Limit     int64
}
