package routes

import (
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/services"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
)

// GetRentRecords lists the tracker view: one month/year, optionally one
// property, sorted by unit number then tenant name.
func GetRentRecords(ctx iris.Context) {
	now := time.Now()
	month := ctx.URLParamIntDefault("month", int(now.Month()))
	year := ctx.URLParamIntDefault("year", now.Year())
	propertyID := ctx.URLParamDefault("propertyId", "all")

	if month < 1 || month > 12 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Month must be between 1 and 12.", ctx)
		return
	}

	monthYear := utils.MonthKey{Year: year, Month: time.Month(month)}.String()

	query := storage.DB.Where("month_year = ?", monthYear)
	if propertyID != "all" {
		query = query.Where("property_id = ?", propertyID)
	}

	var records []models.RentRecord
	if err := query.Order("unit_number, tenant_name").Find(&records).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(records)
}

// UpdateRentPayment records a payment against one rent record. A
// maintenance shortfall also books the companion expense; both writes share
// a transaction.
func UpdateRentPayment(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var record models.RentRecord
	if err := storage.DB.First(&record, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input RentPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	resolution, err := services.ResolvePayment(record, input.PaymentDate, input.AmountReceived, input.PartialReason)
	if err != nil {
		if services.IsValidationError(err) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := services.ApplyPaymentResolution(storage.DB, resolution); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	response := iris.Map{"record": resolution.Record}
	if resolution.Expense != nil {
		response["expense"] = resolution.Expense
	}
	ctx.JSON(response)
}

func DeleteRentRecord(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var record models.RentRecord
	if err := storage.DB.First(&record, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Unscoped().Delete(&record).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// BulkUpdateRentStatus marks the selected records paid or unpaid in one
// batch.
func BulkUpdateRentStatus(ctx iris.Context) {
	var input BulkRentStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var err error
	if input.IsPaid {
		err = services.BulkSetPaid(storage.DB, input.RecordIDs, time.Now())
	} else {
		err = services.BulkSetUnpaid(storage.DB, input.RecordIDs)
	}
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "bulk_update_status", "rent_record", 0, nil, input)
	ctx.JSON(iris.Map{"updated": len(input.RecordIDs), "isPaid": input.IsPaid})
}

// BulkDeleteRentRecords removes the selected records outright.
func BulkDeleteRentRecords(ctx iris.Context) {
	var input BulkRecordIDsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := services.BulkDeleteRecords(storage.DB, input.RecordIDs); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "bulk_delete", "rent_record", 0, input, nil)
	ctx.JSON(iris.Map{"deleted": len(input.RecordIDs)})
}

// GetArrears classifies every unpaid, overdue record as of today.
func GetArrears(ctx iris.Context) {
	var records []models.RentRecord
	if err := storage.DB.Find(&records).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var units []models.Unit
	if err := storage.DB.Find(&units).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(services.ClassifyArrears(records, units, time.Now()))
}

type RentPaymentInput struct {
	PaymentDate    string  `json:"paymentDate" validate:"required,max=10"`
	AmountReceived float64 `json:"amountReceived" validate:"min=0"`
	PartialReason  string  `json:"partialReason" validate:"max=256"`
}

type BulkRentStatusInput struct {
	RecordIDs []uint `json:"recordIDs" validate:"required,min=1"`
	IsPaid    bool   `json:"isPaid"`
}

type BulkRecordIDsInput struct {
	RecordIDs []uint `json:"recordIDs" validate:"required,min=1"`
}
