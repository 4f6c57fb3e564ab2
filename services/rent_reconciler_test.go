package services

import (
	"testing"
	"time"

	"rental-ledger-server/models"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestReconcileCreatesMissingRecords(t *testing.T) {
	unit := testUnit(7, 1000, "2024-01-15")
	obligations, err := GenerateSchedule(unit, testProperty(), time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan := Reconcile(nil, obligations)
	if len(plan.ToCreate) != 4 || len(plan.ToUpdate) != 0 {
		t.Fatalf("expected 4 creates and 0 updates, got %d/%d", len(plan.ToCreate), len(plan.ToUpdate))
	}
	for _, record := range plan.ToCreate {
		if record.IsPaid || record.AmountReceived != 0 || record.PaymentDate != nil ||
			record.IsPartialPayment || record.PartialReason != "" {
			t.Errorf("new record %s must start with zeroed payment state", record.MonthYear)
		}
		if record.Amount != 1000 {
			t.Errorf("record %s: amount = %v, want 1000", record.MonthYear, record.Amount)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	unit := testUnit(7, 1000, "2024-01-15")
	asOf := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	obligations, err := GenerateSchedule(unit, testProperty(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := Reconcile(nil, obligations)

	// Pretend the first plan was applied, then reconcile again.
	existing := make([]models.RentRecord, len(first.ToCreate))
	copy(existing, first.ToCreate)
	for i := range existing {
		existing[i].ID = uint(i + 1)
	}

	second := Reconcile(existing, obligations)
	if !second.Empty() {
		t.Fatalf("second reconciliation must be a no-op, got %d creates and %d updates",
			len(second.ToCreate), len(second.ToUpdate))
	}
}

func TestReconcilePreservesPaidRecords(t *testing.T) {
	paid := models.RentRecord{
		Model:          gorm.Model{ID: 11},
		UnitID:         7,
		MonthYear:      "2024-02",
		Amount:         1000,
		DueDate:        "2024-02-15",
		IsPaid:         true,
		AmountReceived: 1000,
		PaymentDate:    strPtr("2024-02-14"),
		PartialReason:  "",
		PropertyName:   "Lakeview",
		TenantName:     "Asha Rao",
		UnitNumber:     "A1",
	}

	// A retroactive increment changes the computed amount for February.
	obligation := RentObligation{
		UnitID: 7, PropertyID: 1, MonthYear: "2024-02", DueDate: "2024-02-15",
		Amount: 1200, PropertyName: "Lakeview", TenantName: "Asha Rao", UnitNumber: "A1",
	}

	plan := Reconcile([]models.RentRecord{paid}, []RentObligation{obligation})
	if !plan.Empty() {
		t.Fatalf("paid record with unchanged display fields must not be touched, got %d updates", len(plan.ToUpdate))
	}
}

func TestReconcileRefreshesPaidDisplayFieldsOnly(t *testing.T) {
	paid := models.RentRecord{
		Model:          gorm.Model{ID: 12},
		UnitID:         7,
		MonthYear:      "2024-02",
		Amount:         1000,
		DueDate:        "2024-02-15",
		IsPaid:         true,
		AmountReceived: 1000,
		PaymentDate:    strPtr("2024-02-14"),
		PropertyName:   "Old Name",
		TenantName:     "Asha Rao",
		UnitNumber:     "A1",
	}
	obligation := RentObligation{
		UnitID: 7, MonthYear: "2024-02", DueDate: "2024-02-20",
		Amount: 1200, PropertyName: "Lakeview", TenantName: "Asha Rao", UnitNumber: "A1",
	}

	plan := Reconcile([]models.RentRecord{paid}, []RentObligation{obligation})
	if len(plan.ToUpdate) != 1 {
		t.Fatalf("expected 1 display-field update, got %d", len(plan.ToUpdate))
	}
	updated := plan.ToUpdate[0]
	if updated.PropertyName != "Lakeview" {
		t.Errorf("property name not refreshed: %s", updated.PropertyName)
	}
	if updated.Amount != 1000 || updated.DueDate != "2024-02-15" {
		t.Errorf("paid record's financial fields changed: amount=%v due=%s", updated.Amount, updated.DueDate)
	}
	if !updated.IsPaid || updated.AmountReceived != 1000 || updated.PaymentDate == nil || *updated.PaymentDate != "2024-02-14" {
		t.Error("paid record's payment fields changed")
	}
}

func TestReconcileRefreshesUnpaidRecords(t *testing.T) {
	unpaid := models.RentRecord{
		Model:            gorm.Model{ID: 13},
		UnitID:           7,
		MonthYear:        "2024-03",
		Amount:           1000,
		DueDate:          "2024-03-15",
		IsPaid:           false,
		AmountReceived:   400,
		PaymentDate:      strPtr("2024-03-10"),
		IsPartialPayment: true,
		PartialReason:    "Partial payment",
		PropertyName:     "Lakeview",
		TenantName:       "Asha Rao",
		UnitNumber:       "A1",
	}
	obligation := RentObligation{
		UnitID: 7, MonthYear: "2024-03", DueDate: "2024-03-20",
		Amount: 1200, PropertyName: "Lakeview", TenantName: "Asha Rao", UnitNumber: "A1",
	}

	plan := Reconcile([]models.RentRecord{unpaid}, []RentObligation{obligation})
	if len(plan.ToUpdate) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.ToUpdate))
	}
	updated := plan.ToUpdate[0]
	if updated.Amount != 1200 || updated.DueDate != "2024-03-20" {
		t.Errorf("unpaid record not refreshed from obligation: amount=%v due=%s", updated.Amount, updated.DueDate)
	}
	// The obligation is the source of truth until payment is confirmed.
	if updated.AmountReceived != 0 || updated.PaymentDate != nil ||
		updated.IsPartialPayment || updated.PartialReason != "" {
		t.Error("stale partial-payment markers must be reset on refresh")
	}
	if updated.ID != 13 {
		t.Error("update must target the existing row, not create a new one")
	}
}

func TestRecordKeyMatchesObligationKey(t *testing.T) {
	record := models.RentRecord{UnitID: 7, MonthYear: "2024-05"}
	obligation := RentObligation{UnitID: 7, MonthYear: "2024-05"}
	if RecordKey(record) != obligation.Key() {
		t.Fatal("record and obligation keys must share one canonical derivation")
	}
}
