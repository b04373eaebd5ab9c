package models

import "time"

type Role string

const (
	RoleMasterAdmin Role = "master_admin"
	RoleChildAdmin  Role = "child_admin"
	RoleCustomer    Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleMasterAdmin || r == RoleChildAdmin || r == RoleCustomer
}

func (r Role) IsAdmin() bool {
	return r == RoleMasterAdmin || r == RoleChildAdmin
}

type AppUser struct {
	ID            string     `json:"id" bson:"_id"`
	Email         string     `json:"email" bson:"email"`
	FullName      string     `json:"full_name" bson:"full_name"`
	Phone         string     `json:"phone,omitempty" bson:"phone,omitempty"`
	CompanyName   string     `json:"company_name,omitempty" bson:"company_name,omitempty"`
	Address       string     `json:"address,omitempty" bson:"address,omitempty"`
	City          string     `json:"city,omitempty" bson:"city,omitempty"`
	State         string     `json:"state,omitempty" bson:"state,omitempty"`
	Pincode       string     `json:"pincode,omitempty" bson:"pincode,omitempty"`
	PricingRuleID string     `json:"pricing_rule_id,omitempty" bson:"pricing_rule_id,omitempty"`
	Role          Role       `json:"role" bson:"role"`
	IsActive      bool       `json:"is_active" bson:"is_active"`
	Password      string     `json:"password,omitempty" bson:"hashed_password"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// ProfileUpdate holds the fields a user may change on their own account.
// Nil fields are left as they are.
type ProfileUpdate struct {
	FullName    *string `json:"full_name"`
	Phone       *string `json:"phone"`
	CompanyName *string `json:"company_name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *AppUser) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.FullName, p.FullName)
	set(&u.Phone, p.Phone)
	set(&u.CompanyName, p.CompanyName)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.State, p.State)
	set(&u.Pincode, p.Pincode)
}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Role   Role
}
