package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/utils"

	"gorm.io/gorm"
)

// PartialReason is the closed set of reasons a payment can fall short.
// Maintenance is the one variant with a side effect: the shortfall becomes
// an Expense and the rent record is treated as fully settled. Free text
// stays in notes fields, never in the dispatch path.
type PartialReason string

const (
	ReasonLatePayment    PartialReason = "Late payment"
	ReasonPartialPayment PartialReason = "Partial payment"
	ReasonMaintenance    PartialReason = "Maintenance"
	ReasonOther          PartialReason = "Other"
)

// MaintenanceDeductionLabel is the standardized reason stored on a rent
// record settled through the maintenance split.
const MaintenanceDeductionLabel = "Maintenance deduction"

// ParsePartialReason maps form input onto the closed enum; anything
// unrecognized is Other so unknown text can never trigger the expense split.
func ParsePartialReason(s string) PartialReason {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "late payment", "late":
		return ReasonLatePayment
	case "partial payment", "partial":
		return ReasonPartialPayment
	case "maintenance":
		return ReasonMaintenance
	default:
		return ReasonOther
	}
}

// PaymentResolution is the outcome of applying a payment to a rent record.
// Expense is non-nil only for the maintenance split.
type PaymentResolution struct {
	Record  models.RentRecord
	Expense *models.Expense
}

// ResolvePayment applies a user-entered payment to a rent record:
//
//   - received >= amount due: fully paid, received capped at the amount due
//   - received short with reason Maintenance: the shortfall is logged as a
//     Maintenance expense and the record is settled in full
//   - received short with any other reason: stays unpaid, marked partial
//   - received short with no reason: rejected before any state change
func ResolvePayment(record models.RentRecord, paymentDate string, amountReceived float64, reason string) (PaymentResolution, error) {
	if _, err := utils.ParseDate(paymentDate); err != nil {
		return PaymentResolution{}, &ValidationError{Field: "paymentDate", Message: "payment date must be a valid YYYY-MM-DD date"}
	}
	if amountReceived < 0 {
		return PaymentResolution{}, &ValidationError{Field: "amountReceived", Message: "amount received must not be negative"}
	}

	expected := record.Amount
	date := paymentDate

	if amountReceived >= expected {
		record.IsPaid = true
		record.AmountReceived = expected
		record.PaymentDate = &date
		record.IsPartialPayment = false
		record.PartialReason = ""
		return PaymentResolution{Record: record}, nil
	}

	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return PaymentResolution{}, &ValidationError{Field: "partialReason", Message: "a reason is required for partial payments"}
	}

	if ParsePartialReason(trimmed) == ReasonMaintenance {
		// amountReceived < expected here, so the shortfall is positive.
		shortfall := expected - amountReceived

		expense := &models.Expense{
			PropertyID:   record.PropertyID,
			PropertyName: record.PropertyName,
			UnitID:       record.UnitID,
			UnitNumber:   record.UnitNumber,
			Date:         paymentDate,
			Amount:       shortfall,
			Category:     string(ReasonMaintenance),
			Reason:       fmt.Sprintf("Maintenance deduction from rent for Unit %s", record.UnitNumber),
			Notes: fmt.Sprintf("Original rent: %s, Received: %s. Maintenance cost: %s",
				utils.FormatCurrency(expected), utils.FormatCurrency(amountReceived), utils.FormatCurrency(shortfall)),
		}

		record.IsPaid = true
		record.AmountReceived = expected
		record.PaymentDate = &date
		record.IsPartialPayment = false
		record.PartialReason = MaintenanceDeductionLabel
		return PaymentResolution{Record: record, Expense: expense}, nil
	}

	record.IsPaid = false
	record.AmountReceived = amountReceived
	record.PaymentDate = &date
	record.IsPartialPayment = true
	record.PartialReason = trimmed
	return PaymentResolution{Record: record}, nil
}

// ApplyPaymentResolution persists the updated record and, for the
// maintenance split, its companion expense in one transaction.
func ApplyPaymentResolution(db *gorm.DB, resolution PaymentResolution) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&resolution.Record).Error; err != nil {
			return err
		}
		if resolution.Expense != nil {
			if err := tx.Create(resolution.Expense).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ArrearsEntry is a rent record in arrears, annotated with how late and how
// short it is.
type ArrearsEntry struct {
	models.RentRecord
	DaysOverdue     int     `json:"daysOverdue"`
	AmountRemaining float64 `json:"amountRemaining"`
}

// ClassifyArrears picks out the records that are unpaid, short, and past
// due as of today (date-only comparison). Records dated before their unit's
// move-in month are ignored as stray pre-tenancy rows. The result is sorted
// most-overdue first.
func ClassifyArrears(records []models.RentRecord, units []models.Unit, today time.Time) []ArrearsEntry {
	moveInByUnit := make(map[uint]utils.MonthKey, len(units))
	for _, unit := range units {
		moveIn, err := utils.ParseDate(unit.MoveInDate)
		if err != nil {
			continue
		}
		moveInByUnit[unit.ID] = utils.MonthKeyOf(moveIn)
	}

	todayDate := utils.DateOnly(today)
	entries := []ArrearsEntry{}

	for _, record := range records {
		if record.IsPaid {
			continue
		}
		remaining := record.Amount - record.AmountReceived
		if remaining <= 0 {
			continue
		}

		dueDate, err := utils.ParseDate(record.DueDate)
		if err != nil {
			// Legacy rows without a due date fall back to the first of
			// their month.
			month, monthErr := utils.ParseMonthKey(record.MonthYear)
			if monthErr != nil {
				continue
			}
			dueDate = time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC)
		}
		if !dueDate.Before(todayDate) {
			continue
		}

		if moveIn, ok := moveInByUnit[record.UnitID]; ok {
			recordMonth, err := utils.ParseMonthKey(record.MonthYear)
			if err == nil && recordMonth.Before(moveIn) {
				continue
			}
		}

		entries = append(entries, ArrearsEntry{
			RentRecord:      record,
			DaysOverdue:     utils.DaysBetween(dueDate, todayDate),
			AmountRemaining: remaining,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DaysOverdue > entries[j].DaysOverdue
	})
	return entries
}

// BulkSetPaid marks the selected records fully paid as of today, clearing
// any partial flags.
func BulkSetPaid(db *gorm.DB, recordIDs []uint, today time.Time) error {
	if len(recordIDs) == 0 {
		return nil
	}
	paymentDate := utils.FormatDate(today)
	return db.Transaction(func(tx *gorm.DB) error {
		var records []models.RentRecord
		if err := tx.Where("id IN ?", recordIDs).Find(&records).Error; err != nil {
			return err
		}
		for i := range records {
			records[i].IsPaid = true
			records[i].AmountReceived = records[i].Amount
			records[i].PaymentDate = &paymentDate
			records[i].IsPartialPayment = false
			records[i].PartialReason = ""
			if err := tx.Save(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// BulkSetUnpaid resets the selected records to untouched, unpaid state.
func BulkSetUnpaid(db *gorm.DB, recordIDs []uint) error {
	if len(recordIDs) == 0 {
		return nil
	}
	return db.Model(&models.RentRecord{}).Where("id IN ?", recordIDs).
		Updates(map[string]interface{}{
			"is_paid":            false,
			"amount_received":    0,
			"payment_date":       nil,
			"is_partial_payment": false,
			"partial_reason":     "",
		}).Error
}

// BulkDeleteRecords removes the selected records outright, no cascade.
// Deletes are permanent: a soft-deleted row would keep its (unit, month)
// slot occupied and block regeneration.
func BulkDeleteRecords(db *gorm.DB, recordIDs []uint) error {
	if len(recordIDs) == 0 {
		return nil
	}
	return db.Unscoped().Where("id IN ?", recordIDs).Delete(&models.RentRecord{}).Error
}
