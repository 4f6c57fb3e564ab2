package models

import (
	"gorm.io/gorm"
)

// Unit is one rentable unit inside a Property. Dates are stored as
// YYYY-MM-DD strings, matching the client's form inputs; the schedule
// generator validates them and skips units with bad move-in dates.
type Unit struct {
	gorm.Model
	PropertyID   uint   `json:"propertyID" gorm:"index"`
	PropertyName string `json:"propertyName"` // denormalized for display
	Number       string `json:"number"`
	TenantName   string `json:"tenantName"`
	TenantPhone  string `json:"tenantPhone"`
	TenantEmail  string `json:"tenantEmail"`

	RentAmount      float64 `json:"rentAmount"`
	MoveInDate      string  `json:"moveInDate"`
	LeaseStartDate  string  `json:"leaseStartDate"`
	LeaseEndDate    string  `json:"leaseEndDate"`
	SecurityDeposit float64 `json:"securityDeposit"`

	// One-time flat rent step-up, applied to every month whose due date
	// falls on or after the effective date.
	RentIncrementAmount        float64 `json:"rentIncrementAmount"`
	RentIncrementEffectiveDate string  `json:"rentIncrementEffectiveDate"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

// RentInputsEqual reports whether the rent-affecting fields match, so unit
// edits that only touch contact details can skip ledger regeneration.
func (u *Unit) RentInputsEqual(other *Unit) bool {
	return u.RentAmount == other.RentAmount &&
		u.MoveInDate == other.MoveInDate &&
		u.RentIncrementAmount == other.RentIncrementAmount &&
		u.RentIncrementEffectiveDate == other.RentIncrementEffectiveDate
}
