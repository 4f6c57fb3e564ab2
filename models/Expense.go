package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Expense struct {
	gorm.Model
	PropertyID   uint   `json:"propertyID" gorm:"index"`
	PropertyName string `json:"propertyName"`
	UnitID       uint   `json:"unitID" gorm:"index"`
	UnitNumber   string `json:"unitNumber"`

	Date     string  `json:"date" gorm:"type:varchar(10)"` // YYYY-MM-DD
	Amount   float64 `json:"amount"`
	Category string  `json:"category" gorm:"type:varchar(32);index"` // Maintenance, Utilities, Mortgage, Tax, Insurance, Other
	Reason   string  `json:"reason"`
	Notes    string  `json:"notes" gorm:"type:text"`

	// Uploaded receipt file references, stored as a JSON array of URLs.
	Receipts datatypes.JSON `json:"receipts"`
}

// ExpenseCategories is the closed set offered by the expense form.
var ExpenseCategories = []string{"Maintenance", "Utilities", "Mortgage", "Tax", "Insurance", "Other"}

// Custom JSON marshaling to always expose receipts as an array.
func (e *Expense) MarshalJSON() ([]byte, error) {
	type Alias Expense
	aux := &struct {
		Receipts []string `json:"receipts"`
		*Alias
	}{
		Receipts: []string{},
		Alias:    (*Alias)(e),
	}
	if e.Receipts != nil {
		var receipts []string
		if err := json.Unmarshal(e.Receipts, &receipts); err == nil {
			aux.Receipts = receipts
		}
	}
	return json.Marshal(aux)
}
