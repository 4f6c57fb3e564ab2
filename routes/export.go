package routes

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
)

// Fixed column orders for each export. Exports are a pure projection of the
// stored fields: nothing invented, nothing dropped.
var (
	rentRecordHeaders = []string{
		"id", "propertyId", "propertyName", "unitId", "unitNumber", "tenantName",
		"amount", "amountReceived", "monthYear", "isPaid", "paymentDate",
		"dueDate", "isPartialPayment", "partialReason", "createdAt",
	}
	expenseHeaders = []string{
		"id", "date", "propertyId", "propertyName", "unitId", "unitNumber",
		"amount", "reason", "category", "notes", "createdAt",
	}
	unitHeaders = []string{
		"id", "propertyId", "propertyName", "number", "tenantName", "tenantPhone",
		"tenantEmail", "rentAmount", "moveInDate", "leaseStartDate", "leaseEndDate",
		"securityDeposit", "rentIncrementAmount", "rentIncrementEffectiveDate", "createdAt",
	}
	taskHeaders = []string{"id", "description", "propertyId", "status", "createdAt"}
)

// ExportRentRecords streams the full ledger as CSV, or JSON with ?format=json.
func ExportRentRecords(ctx iris.Context) {
	var records []models.RentRecord
	if err := storage.DB.Order("month_year, unit_number").Find(&records).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if ctx.URLParamDefault("format", "csv") == "json" {
		sendJSONExport(ctx, "rent_records.json", records)
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		paymentDate := ""
		if r.PaymentDate != nil {
			paymentDate = *r.PaymentDate
		}
		rows = append(rows, []string{
			formatUint(r.ID), formatUint(r.PropertyID), r.PropertyName,
			formatUint(r.UnitID), r.UnitNumber, r.TenantName,
			formatAmount(r.Amount), formatAmount(r.AmountReceived), r.MonthYear,
			strconv.FormatBool(r.IsPaid), paymentDate, r.DueDate,
			strconv.FormatBool(r.IsPartialPayment), r.PartialReason,
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	sendCSVExport(ctx, "rent_records.csv", rentRecordHeaders, rows)
}

func ExportExpenses(ctx iris.Context) {
	var expenses []models.Expense
	if err := storage.DB.Order("date desc").Find(&expenses).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if ctx.URLParamDefault("format", "csv") == "json" {
		sendJSONExport(ctx, "expense_records.json", expenses)
		return
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []string{
			formatUint(e.ID), e.Date, formatUint(e.PropertyID), e.PropertyName,
			formatUint(e.UnitID), e.UnitNumber, formatAmount(e.Amount),
			e.Reason, e.Category, e.Notes, e.CreatedAt.Format(time.RFC3339),
		})
	}
	sendCSVExport(ctx, "expense_records.csv", expenseHeaders, rows)
}

// ExportPropertiesAndUnits flattens properties into one row per unit.
func ExportPropertiesAndUnits(ctx iris.Context) {
	var properties []models.Property
	if err := storage.DB.Preload("Units").Order("name").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if ctx.URLParamDefault("format", "csv") == "json" {
		sendJSONExport(ctx, "properties_units_data.json", properties)
		return
	}

	var rows [][]string
	for _, property := range properties {
		for _, unit := range property.Units {
			rows = append(rows, []string{
				formatUint(unit.ID), formatUint(property.ID), property.Name,
				unit.Number, unit.TenantName, unit.TenantPhone, unit.TenantEmail,
				formatAmount(unit.RentAmount), unit.MoveInDate,
				unit.LeaseStartDate, unit.LeaseEndDate,
				formatAmount(unit.SecurityDeposit),
				formatAmount(unit.RentIncrementAmount), unit.RentIncrementEffectiveDate,
				unit.CreatedAt.Format(time.RFC3339),
			})
		}
	}
	sendCSVExport(ctx, "properties_units_data.csv", unitHeaders, rows)
}

func ExportTasks(ctx iris.Context) {
	var tasks []models.Task
	if err := storage.DB.Order("created_at").Find(&tasks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if ctx.URLParamDefault("format", "csv") == "json" {
		sendJSONExport(ctx, "tasks_data.json", tasks)
		return
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			formatUint(t.ID), t.Description, formatUint(t.PropertyID),
			t.Status, t.CreatedAt.Format(time.RFC3339),
		})
	}
	sendCSVExport(ctx, "tasks_data.csv", taskHeaders, rows)
}

func sendCSVExport(ctx iris.Context, filename string, headers []string, rows [][]string) {
	ctx.ContentType("text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	writer := csv.NewWriter(ctx.ResponseWriter())
	writer.Write(headers)
	writer.WriteAll(rows)
	writer.Flush()
}

func sendJSONExport(ctx iris.Context, filename string, data interface{}) {
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	ctx.JSON(data)
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
