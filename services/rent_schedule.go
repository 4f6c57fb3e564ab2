package services

import (
	"log"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/utils"
)

// RentObligation is a computed monthly rent line for a unit. It carries no
// payment state; persistence is the reconciler's job.
type RentObligation struct {
	UnitID       uint    `json:"unitID"`
	PropertyID   uint    `json:"propertyID"`
	MonthYear    string  `json:"monthYear"` // YYYY-MM
	DueDate      string  `json:"dueDate"`   // YYYY-MM-DD
	Amount       float64 `json:"amount"`
	TenantName   string  `json:"tenantName"`
	UnitNumber   string  `json:"unitNumber"`
	PropertyName string  `json:"propertyName"`
}

func (o RentObligation) Key() LedgerKey {
	return LedgerKey{UnitID: o.UnitID, MonthYear: o.MonthYear}
}

// GenerateSchedule computes every monthly rent obligation for a unit, from
// its move-in month through the month containing asOf, inclusive. The due
// day is the move-in day-of-month, clamped into short months. The one-time
// rent increment is added to every month whose due date falls on or after
// the increment's effective date.
//
// The result is deterministic for fixed inputs and asOf, and months after
// asOf are never emitted.
func GenerateSchedule(unit models.Unit, property models.Property, asOf time.Time) ([]RentObligation, error) {
	if unit.MoveInDate == "" {
		return nil, &SkipUnitError{UnitID: unit.ID, Reason: "no move-in date"}
	}
	moveIn, err := utils.ParseDate(unit.MoveInDate)
	if err != nil {
		return nil, &SkipUnitError{UnitID: unit.ID, Reason: err.Error()}
	}
	if unit.RentAmount < 0 {
		return nil, &ValidationError{Field: "rentAmount", Message: "rent amount must not be negative"}
	}

	rentDueDay := moveIn.Day()

	var incrementFrom time.Time
	applyIncrement := false
	if unit.RentIncrementAmount > 0 && unit.RentIncrementEffectiveDate != "" {
		incrementFrom, err = utils.ParseDate(unit.RentIncrementEffectiveDate)
		if err != nil {
			log.Printf("unit %d: ignoring unparseable rent increment date %q", unit.ID, unit.RentIncrementEffectiveDate)
		} else {
			applyIncrement = true
		}
	}

	asOfMonth := utils.MonthKeyOf(asOf)
	obligations := []RentObligation{}

	for month := utils.MonthKeyOf(moveIn); !month.After(asOfMonth); month = month.Next() {
		dueDay := utils.ClampDay(rentDueDay, month.Year, month.Month)
		dueDate := time.Date(month.Year, month.Month, dueDay, 0, 0, 0, 0, time.UTC)

		amount := unit.RentAmount
		if applyIncrement && !dueDate.Before(incrementFrom) {
			amount += unit.RentIncrementAmount
		}

		obligations = append(obligations, RentObligation{
			UnitID:       unit.ID,
			PropertyID:   property.ID,
			MonthYear:    month.String(),
			DueDate:      utils.FormatDate(dueDate),
			Amount:       amount,
			TenantName:   unit.TenantName,
			UnitNumber:   unit.Number,
			PropertyName: property.Name,
		})
	}

	return obligations, nil
}
