package services

import (
	"strings"
	"testing"
	"time"

	"rental-ledger-server/models"

	"gorm.io/gorm"
)

func trackerRecord(id uint, amount float64) models.RentRecord {
	return models.RentRecord{
		Model:        gorm.Model{ID: id},
		PropertyID:   1,
		PropertyName: "Lakeview",
		UnitID:       7,
		UnitNumber:   "A1",
		TenantName:   "Asha Rao",
		Amount:       amount,
		MonthYear:    "2024-01",
		DueDate:      "2024-01-05",
	}
}

func TestResolvePaymentFull(t *testing.T) {
	resolution, err := ResolvePayment(trackerRecord(1, 1000), "2024-01-04", 1000, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record := resolution.Record
	if !record.IsPaid || record.AmountReceived != 1000 {
		t.Errorf("full payment: isPaid=%v received=%v", record.IsPaid, record.AmountReceived)
	}
	if record.IsPartialPayment || record.PartialReason != "" {
		t.Error("full payment must clear partial markers")
	}
	if record.PaymentDate == nil || *record.PaymentDate != "2024-01-04" {
		t.Error("payment date not recorded")
	}
	if resolution.Expense != nil {
		t.Error("full payment must not create an expense")
	}
}

func TestResolvePaymentOverpaymentClamped(t *testing.T) {
	resolution, err := ResolvePayment(trackerRecord(2, 1000), "2024-01-04", 1500, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolution.Record.AmountReceived != 1000 {
		t.Errorf("received = %v, want clamp to 1000", resolution.Record.AmountReceived)
	}
}

func TestResolvePaymentPartialWithoutReasonRejected(t *testing.T) {
	record := trackerRecord(3, 1000)
	_, err := ResolvePayment(record, "2024-01-04", 600, "")
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// The input record is passed by value: nothing persisted, nothing mutated.
	if record.IsPaid || record.AmountReceived != 0 {
		t.Error("rejected payment must leave the record unchanged")
	}
}

func TestResolvePaymentMaintenanceSplit(t *testing.T) {
	resolution, err := ResolvePayment(trackerRecord(4, 1000), "2024-01-04", 700, "Maintenance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := resolution.Record
	if !record.IsPaid {
		t.Error("maintenance split must settle the rent record")
	}
	if record.AmountReceived != 1000 {
		t.Errorf("received = %v, want full amount 1000", record.AmountReceived)
	}
	if record.PartialReason != MaintenanceDeductionLabel {
		t.Errorf("partial reason = %q, want %q", record.PartialReason, MaintenanceDeductionLabel)
	}

	expense := resolution.Expense
	if expense == nil {
		t.Fatal("maintenance split must create a companion expense")
	}
	if expense.Amount != 300 {
		t.Errorf("expense amount = %v, want shortfall 300", expense.Amount)
	}
	if expense.Category != "Maintenance" {
		t.Errorf("expense category = %q, want Maintenance", expense.Category)
	}
	if expense.Date != "2024-01-04" {
		t.Errorf("expense date = %q, want payment date", expense.Date)
	}
	if expense.PropertyID != 1 || expense.UnitID != 7 {
		t.Error("expense must reference the same property and unit")
	}
	if !strings.Contains(expense.Reason, "Unit A1") {
		t.Errorf("expense reason %q should name the unit", expense.Reason)
	}
}

func TestResolvePaymentMaintenanceCaseInsensitive(t *testing.T) {
	resolution, err := ResolvePayment(trackerRecord(5, 1000), "2024-01-04", 900, "maintenance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolution.Expense == nil || resolution.Expense.Amount != 100 {
		t.Fatal("lowercase reason must still dispatch the maintenance split")
	}
}

func TestResolvePaymentPartialWithReason(t *testing.T) {
	resolution, err := ResolvePayment(trackerRecord(6, 1000), "2024-01-10", 600, "Late payment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record := resolution.Record
	if record.IsPaid {
		t.Error("partial payment must stay unpaid")
	}
	if !record.IsPartialPayment || record.AmountReceived != 600 {
		t.Errorf("partial markers wrong: partial=%v received=%v", record.IsPartialPayment, record.AmountReceived)
	}
	if record.PaymentDate == nil || *record.PaymentDate != "2024-01-10" {
		t.Error("partial payment date must still be recorded")
	}
	if resolution.Expense != nil {
		t.Error("non-maintenance partial must not create an expense")
	}
}

func TestResolvePaymentBadDateRejected(t *testing.T) {
	_, err := ResolvePayment(trackerRecord(7, 1000), "January 4th", 1000, "")
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParsePartialReason(t *testing.T) {
	cases := map[string]PartialReason{
		"Maintenance":   ReasonMaintenance,
		" maintenance ": ReasonMaintenance,
		"Late payment":  ReasonLatePayment,
		"partial":       ReasonPartialPayment,
		"tenant issue":  ReasonOther,
		"":              ReasonOther,
	}
	for input, want := range cases {
		if got := ParsePartialReason(input); got != want {
			t.Errorf("ParsePartialReason(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestClassifyArrears(t *testing.T) {
	today := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)
	units := []models.Unit{testUnit(7, 1000, "2023-12-01")}

	overdue := trackerRecord(1, 1000)
	paid := trackerRecord(2, 1000)
	paid.IsPaid = true
	paid.AmountReceived = 1000
	notYetDue := trackerRecord(3, 1000)
	notYetDue.MonthYear = "2024-02"
	notYetDue.DueDate = "2024-02-05"
	older := trackerRecord(4, 800)
	older.MonthYear = "2023-12"
	older.DueDate = "2023-12-05"
	preTenancy := trackerRecord(5, 1000)
	preTenancy.MonthYear = "2023-10"
	preTenancy.DueDate = "2023-10-05"

	entries := ClassifyArrears([]models.RentRecord{overdue, paid, notYetDue, older, preTenancy}, units, today)

	if len(entries) != 2 {
		t.Fatalf("expected 2 arrears entries, got %d", len(entries))
	}
	// Sorted most-overdue first.
	if entries[0].ID != 4 || entries[1].ID != 1 {
		t.Fatalf("wrong order: got ids %d, %d", entries[0].ID, entries[1].ID)
	}
	if entries[1].DaysOverdue != 27 {
		t.Errorf("daysOverdue = %d, want 27", entries[1].DaysOverdue)
	}
	if entries[1].AmountRemaining != 1000 {
		t.Errorf("amountRemaining = %v, want 1000", entries[1].AmountRemaining)
	}
}

func TestClassifyArrearsPartialBalance(t *testing.T) {
	today := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	units := []models.Unit{testUnit(7, 1000, "2023-12-01")}

	partial := trackerRecord(1, 1000)
	partial.AmountReceived = 400
	partial.IsPartialPayment = true

	settled := trackerRecord(2, 1000)
	settled.AmountReceived = 1000 // fully received but isPaid false: zero balance

	entries := ClassifyArrears([]models.RentRecord{partial, settled}, units, today)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].AmountRemaining != 600 {
		t.Errorf("amountRemaining = %v, want 600", entries[0].AmountRemaining)
	}
}

func TestClassifyArrearsDueTodayNotOverdue(t *testing.T) {
	today := time.Date(2024, time.January, 5, 23, 0, 0, 0, time.UTC)
	units := []models.Unit{testUnit(7, 1000, "2023-12-01")}

	dueToday := trackerRecord(1, 1000) // due 2024-01-05
	entries := ClassifyArrears([]models.RentRecord{dueToday}, units, today)
	if len(entries) != 0 {
		t.Fatalf("a record due today is not in arrears, got %d entries", len(entries))
	}
}
