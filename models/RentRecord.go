package models

import (
	"gorm.io/gorm"
)

// RentRecord is the ledger line for one unit for one calendar month. Its
// logical identity is (UnitID, MonthYear); the reconciler upserts against
// that pair so regeneration never duplicates rows.
type RentRecord struct {
	gorm.Model
	PropertyID   uint   `json:"propertyID" gorm:"index"`
	PropertyName string `json:"propertyName"`
	UnitID       uint   `json:"unitID" gorm:"index:idx_rent_unit_month,unique"`
	UnitNumber   string `json:"unitNumber"`
	TenantName   string `json:"tenantName"`

	Amount    float64 `json:"amount"`
	MonthYear string  `json:"monthYear" gorm:"type:varchar(7);index:idx_rent_unit_month,unique"` // YYYY-MM
	DueDate   string  `json:"dueDate" gorm:"type:varchar(10)"`                                   // YYYY-MM-DD

	IsPaid           bool    `json:"isPaid"`
	AmountReceived   float64 `json:"amountReceived"`
	PaymentDate      *string `json:"paymentDate" gorm:"type:varchar(10)"`
	IsPartialPayment bool    `json:"isPartialPayment"`
	PartialReason    string  `json:"partialReason"`
}
