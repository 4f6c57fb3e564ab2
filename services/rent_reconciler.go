package services

import (
	"fmt"
	"log"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/storage"

	"gorm.io/gorm"
)

// LedgerKey is the stable identity of one rent record: one unit, one
// calendar month. Both the reconciler and duplicate detection key on it.
type LedgerKey struct {
	UnitID    uint
	MonthYear string
}

func RecordKey(r models.RentRecord) LedgerKey {
	return LedgerKey{UnitID: r.UnitID, MonthYear: r.MonthYear}
}

// ReconcilePlan is the set of writes needed to bring the persisted ledger
// in line with freshly computed obligations.
type ReconcilePlan struct {
	ToCreate []models.RentRecord
	ToUpdate []models.RentRecord
}

func (p ReconcilePlan) Empty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0
}

// Reconcile merges obligations into the existing ledger:
//
//   - no record for an obligation's key: create one with zeroed payment state
//   - record exists and is paid: financial and payment fields are untouched,
//     only denormalized display fields refresh
//   - record exists and is unpaid: amount and due date are overwritten from
//     the obligation (so a later-entered increment corrects not-yet-paid
//     months) and any stale partial-payment markers are reset; the
//     obligation is the source of truth until payment is confirmed
//
// Records are only planned for update when something actually changes, so
// re-running against an already reconciled ledger yields an empty plan.
func Reconcile(existing []models.RentRecord, obligations []RentObligation) ReconcilePlan {
	byKey := make(map[LedgerKey]models.RentRecord, len(existing))
	for _, record := range existing {
		byKey[RecordKey(record)] = record
	}

	var plan ReconcilePlan
	for _, obligation := range obligations {
		record, ok := byKey[obligation.Key()]
		if !ok {
			plan.ToCreate = append(plan.ToCreate, newRecordFromObligation(obligation))
			continue
		}

		if record.IsPaid {
			if refreshDisplayFields(&record, obligation) {
				plan.ToUpdate = append(plan.ToUpdate, record)
			}
			continue
		}

		changed := refreshDisplayFields(&record, obligation)
		if record.Amount != obligation.Amount {
			record.Amount = obligation.Amount
			changed = true
		}
		if record.DueDate != obligation.DueDate {
			record.DueDate = obligation.DueDate
			changed = true
		}
		if record.AmountReceived != 0 || record.PaymentDate != nil ||
			record.IsPartialPayment || record.PartialReason != "" {
			record.AmountReceived = 0
			record.PaymentDate = nil
			record.IsPartialPayment = false
			record.PartialReason = ""
			changed = true
		}
		if changed {
			plan.ToUpdate = append(plan.ToUpdate, record)
		}
	}

	return plan
}

func newRecordFromObligation(o RentObligation) models.RentRecord {
	return models.RentRecord{
		PropertyID:       o.PropertyID,
		PropertyName:     o.PropertyName,
		UnitID:           o.UnitID,
		UnitNumber:       o.UnitNumber,
		TenantName:       o.TenantName,
		Amount:           o.Amount,
		MonthYear:        o.MonthYear,
		DueDate:          o.DueDate,
		IsPaid:           false,
		AmountReceived:   0,
		PaymentDate:      nil,
		IsPartialPayment: false,
		PartialReason:    "",
	}
}

func refreshDisplayFields(record *models.RentRecord, o RentObligation) bool {
	changed := false
	if record.PropertyName != o.PropertyName {
		record.PropertyName = o.PropertyName
		changed = true
	}
	if record.TenantName != o.TenantName {
		record.TenantName = o.TenantName
		changed = true
	}
	if record.UnitNumber != o.UnitNumber {
		record.UnitNumber = o.UnitNumber
		changed = true
	}
	return changed
}

// ApplyReconciliation writes the plan in a single transaction, so a unit's
// ledger is never left half-updated. Safe to re-run: the plan is derived
// from the (UnitID, MonthYear) identity, never by appending blindly.
func ApplyReconciliation(db *gorm.DB, plan ReconcilePlan) error {
	if plan.Empty() {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if len(plan.ToCreate) > 0 {
			if err := tx.Create(&plan.ToCreate).Error; err != nil {
				return err
			}
		}
		for i := range plan.ToUpdate {
			if err := tx.Save(&plan.ToUpdate[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RegenerateUnitLedger generates the unit's schedule as of now and
// reconciles it against the persisted records. A short-lived Redis lock
// keeps overlapping saves of the same unit from double-running; losing the
// lock is harmless since the next regeneration is idempotent.
func RegenerateUnitLedger(db *gorm.DB, unit models.Unit, property models.Property, asOf time.Time) error {
	lockKey := fmt.Sprintf("rentgen:unit:%d", unit.ID)
	if storage.Redis != nil {
		acquired, err := storage.Redis.SetNX(storage.Ctx, lockKey, "1", 30*time.Second).Result()
		if err == nil && !acquired {
			log.Printf("unit %d: regeneration already in flight, skipping", unit.ID)
			return nil
		}
		defer storage.Redis.Del(storage.Ctx, lockKey)
	}

	obligations, err := GenerateSchedule(unit, property, asOf)
	if err != nil {
		return err
	}

	var existing []models.RentRecord
	if err := db.Where("unit_id = ?", unit.ID).Find(&existing).Error; err != nil {
		return err
	}

	return ApplyReconciliation(db, Reconcile(existing, obligations))
}

// CatchUpAllUnits regenerates every unit's ledger through asOf. Units with
// bad move-in dates are skipped with a warning so one malformed unit cannot
// block the rest; each unit's writes stay isolated in their own batch.
func CatchUpAllUnits(db *gorm.DB, asOf time.Time) (int, error) {
	var properties []models.Property
	if err := db.Preload("Units").Find(&properties).Error; err != nil {
		return 0, err
	}

	reconciled := 0
	var firstErr error
	for _, property := range properties {
		for _, unit := range property.Units {
			err := RegenerateUnitLedger(db, unit, property, asOf)
			if err == nil {
				reconciled++
				continue
			}
			if IsSkipUnit(err) {
				log.Printf("catch-up: %v", err)
				continue
			}
			log.Printf("catch-up: unit %d failed: %v", unit.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return reconciled, firstErr
}
