package routes

import (
	"encoding/json"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/services"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func CreateExpense(ctx iris.Context) {
	var input ExpenseInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if _, err := utils.ParseDate(input.Date); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Expense date must be a valid YYYY-MM-DD date.", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, input.PropertyID).Error; err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Unknown property.", ctx)
		return
	}

	receipts := input.Receipts
	if receipts == nil {
		receipts = []string{}
	}
	receiptsJSON, _ := json.Marshal(receipts)

	expense := models.Expense{
		PropertyID:   property.ID,
		PropertyName: property.Name,
		UnitID:       input.UnitID,
		UnitNumber:   input.UnitNumber,
		Date:         input.Date,
		Amount:       input.Amount,
		Category:     input.Category,
		Reason:       input.Reason,
		Notes:        input.Notes,
		Receipts:     datatypes.JSON(receiptsJSON),
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if input.IsRecurring {
			day := 1
			if date, err := utils.ParseDate(input.Date); err == nil {
				day = date.Day()
			}
			rule := models.RecurringExpense{
				PropertyID:      property.ID,
				PropertyName:    property.Name,
				UnitID:          input.UnitID,
				UnitNumber:      input.UnitNumber,
				Amount:          input.Amount,
				Category:        input.Category,
				Reason:          input.Reason,
				DayOfMonth:      day,
				LastPostedMonth: input.Date[:7], // the created expense covers this month
			}
			return tx.Create(&rule).Error
		}
		return nil
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(expense)
}

// GetExpenses lists expenses newest first, optionally for one property.
func GetExpenses(ctx iris.Context) {
	propertyID := ctx.URLParamDefault("propertyId", "all")

	query := storage.DB.Order("date desc")
	if propertyID != "all" {
		query = query.Where("property_id = ?", propertyID)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(expenses)
}

func DeleteExpense(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var expense models.Expense
	if err := storage.DB.First(&expense, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&expense).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// PostRecurringExpenses materializes any recurring rules that have not yet
// been posted for the current month.
func PostRecurringExpenses(ctx iris.Context) {
	posted, err := services.PostRecurringExpenses(storage.DB, time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"posted": posted})
}

type ExpenseInput struct {
	PropertyID  uint     `json:"propertyID" validate:"required"`
	UnitID      uint     `json:"unitID"`
	UnitNumber  string   `json:"unitNumber" validate:"max=64"`
	Date        string   `json:"date" validate:"required,max=10"`
	Amount      float64  `json:"amount" validate:"required,min=0"`
	Category    string   `json:"category" validate:"required,oneof=Maintenance Utilities Mortgage Tax Insurance Other"`
	Reason      string   `json:"reason" validate:"max=512"`
	Notes       string   `json:"notes"`
	Receipts    []string `json:"receipts"`
	IsRecurring bool     `json:"isRecurring"`
}
