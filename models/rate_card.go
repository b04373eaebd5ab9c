package models

import "time"

const (
	ServiceCargo   = "cargo"
	ServiceCourier = "courier"
	ServiceOther   = "other"

	ModeSurface = "surface"
	ModeAir     = "air"
)

// RateCard is a negotiated charge schedule for one customer, partner and lane.
type RateCard struct {
	ID              string     `json:"id" bson:"_id"`
	UserID          string     `json:"user_id" bson:"user_id"`
	UserName        string     `json:"user_name" bson:"user_name"`
	DeliveryPartner string     `json:"delivery_partner" bson:"delivery_partner"`
	ServiceType     string     `json:"service_type" bson:"service_type"`
	Mode            string     `json:"mode" bson:"mode"`
	Region          string     `json:"region,omitempty" bson:"region,omitempty"`
	Zone            string     `json:"zone,omitempty" bson:"zone,omitempty"`
	BaseRate        float64    `json:"base_rate" bson:"base_rate"`
	DocketCharge    float64    `json:"docket_charge" bson:"docket_charge"`
	FOV             float64    `json:"fov" bson:"fov"`
	FuelCharge      float64    `json:"fuel_charge" bson:"fuel_charge"`
	GST             float64    `json:"gst" bson:"gst"`
	ODI             float64    `json:"odi" bson:"odi"`
	IsActive        bool       `json:"is_active" bson:"is_active"`
	CreatedBy       string     `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// RateCardKey identifies a rate card uniquely. Region applies to cargo, Zone to courier.
type RateCardKey struct {
	UserID          string `json:"user_id"`
	DeliveryPartner string `json:"delivery_partner"`
	ServiceType     string `json:"service_type"`
	Mode            string `json:"mode"`
	Region          string `json:"region,omitempty"`
	Zone            string `json:"zone,omitempty"`
}

func (r *RateCard) Key() RateCardKey {
	return RateCardKey{
		UserID:          r.UserID,
		DeliveryPartner: r.DeliveryPartner,
		ServiceType:     r.ServiceType,
		Mode:            r.Mode,
		Region:          r.Region,
		Zone:            r.Zone,
	}
}

type RateCardPatch struct {
	UserID          *string  `json:"user_id"`
	UserName        *string  `json:"user_name"`
	DeliveryPartner *string  `json:"delivery_partner"`
	ServiceType     *string  `json:"service_type"`
	Mode            *string  `json:"mode"`
	Region          *string  `json:"region"`
	Zone            *string  `json:"zone"`
	BaseRate        *float64 `json:"base_rate"`
	DocketCharge    *float64 `json:"docket_charge"`
	FOV             *float64 `json:"fov"`
	FuelCharge      *float64 `json:"fuel_charge"`
	GST             *float64 `json:"gst"`
	ODI             *float64 `json:"odi"`
	IsActive        *bool    `json:"is_active"`
}

func (p RateCardPatch) Apply(r *RateCard) {
	setString(&r.UserID, p.UserID)
	setString(&r.UserName, p.UserName)
	setString(&r.DeliveryPartner, p.DeliveryPartner)
	setString(&r.ServiceType, p.ServiceType)
	setString(&r.Mode, p.Mode)
	setString(&r.Region, p.Region)
	setString(&r.Zone, p.Zone)
	setFloat(&r.BaseRate, p.BaseRate)
	setFloat(&r.DocketCharge, p.DocketCharge)
	setFloat(&r.FOV, p.FOV)
	setFloat(&r.FuelCharge, p.FuelCharge)
	setFloat(&r.GST, p.GST)
	setFloat(&r.ODI, p.ODI)
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
	}
}

type RateCardFilter struct {
	UserID          string
	DeliveryPartner string
	ServiceType     string
	ActiveOnly      bool
}

// RateCardFetchResult answers a lookup by key. Card is nil when nothing active matches.
type RateCardFetchResult struct {
	Found    bool      `json:"found"`
	RateCard *RateCard `json:"rate_card,omitempty"`
	Message  string    `json:"message,omitempty"`
}
