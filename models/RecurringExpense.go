package models

import (
	"gorm.io/gorm"
)

// RecurringExpense is a monthly rule created from the expense form's
// "Recurring Monthly?" toggle. The poster materializes one Expense per
// rule per month, tracked by LastPostedMonth so catch-up is idempotent.
type RecurringExpense struct {
	gorm.Model
	PropertyID   uint    `json:"propertyID" gorm:"index"`
	PropertyName string  `json:"propertyName"`
	UnitID       uint    `json:"unitID"`
	UnitNumber   string  `json:"unitNumber"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category" gorm:"type:varchar(32)"`
	Reason       string  `json:"reason"`
	DayOfMonth   int     `json:"dayOfMonth"` // clamped into short months when posting

	LastPostedMonth string `json:"lastPostedMonth" gorm:"type:varchar(7)"` // YYYY-MM
}
