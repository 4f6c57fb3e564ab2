package routes

import (
	"log"
	"time"

	"rental-ledger-server/models"
	"rental-ledger-server/services"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func CreateUnit(ctx iris.Context) {
	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, input.PropertyID).Error; err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Unknown property.", ctx)
		return
	}

	if input.MoveInDate != "" {
		if _, err := utils.ParseDate(input.MoveInDate); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Move-in date must be a valid YYYY-MM-DD date.", ctx)
			return
		}
	}

	unit := models.Unit{
		PropertyID:                 property.ID,
		PropertyName:               property.Name,
		Number:                     input.Number,
		TenantName:                 input.TenantName,
		TenantPhone:                input.TenantPhone,
		TenantEmail:                input.TenantEmail,
		RentAmount:                 input.RentAmount,
		MoveInDate:                 input.MoveInDate,
		LeaseStartDate:             input.LeaseStartDate,
		LeaseEndDate:               input.LeaseEndDate,
		SecurityDeposit:            input.SecurityDeposit,
		RentIncrementAmount:        input.RentIncrementAmount,
		RentIncrementEffectiveDate: input.RentIncrementEffectiveDate,
	}

	if result := storage.DB.Create(&unit); result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	regenerateLedger(unit, property)
	ctx.JSON(unit)
}

func UpdateUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input UnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.MoveInDate != "" {
		if _, err := utils.ParseDate(input.MoveInDate); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Move-in date must be a valid YYYY-MM-DD date.", ctx)
			return
		}
	}

	var property models.Property
	if err := storage.DB.First(&property, unit.PropertyID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	before := unit
	unit.Number = input.Number
	unit.TenantName = input.TenantName
	unit.TenantPhone = input.TenantPhone
	unit.TenantEmail = input.TenantEmail
	unit.RentAmount = input.RentAmount
	unit.MoveInDate = input.MoveInDate
	unit.LeaseStartDate = input.LeaseStartDate
	unit.LeaseEndDate = input.LeaseEndDate
	unit.SecurityDeposit = input.SecurityDeposit
	unit.RentIncrementAmount = input.RentIncrementAmount
	unit.RentIncrementEffectiveDate = input.RentIncrementEffectiveDate

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&unit).Error; err != nil {
			return err
		}
		// Keep denormalized tenant/unit labels on the ledger current.
		return tx.Model(&models.RentRecord{}).Where("unit_id = ?", unit.ID).
			Updates(map[string]interface{}{
				"tenant_name": unit.TenantName,
				"unit_number": unit.Number,
			}).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Rent-affecting edits regenerate the ledger; contact-only edits skip it.
	if !unit.RentInputsEqual(&before) {
		regenerateLedger(unit, property)
	}

	ctx.JSON(unit)
}

// DeleteUnit removes a unit and its rent records in one transaction.
func DeleteUnit(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var unit models.Unit
	if err := storage.DB.First(&unit, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("unit_id = ?", unit.ID).Delete(&models.RentRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&unit).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "delete", "unit", unit.ID, unit, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

// RegenerateAllLedgers catches every unit up to today.
func RegenerateAllLedgers(ctx iris.Context) {
	reconciled, err := services.CatchUpAllUnits(storage.DB, time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"unitsReconciled": reconciled})
}

// regenerateLedger runs synchronously so the caller sees a complete ledger
// on the next read. A missing move-in date is a warning, not a failure.
func regenerateLedger(unit models.Unit, property models.Property) {
	err := services.RegenerateUnitLedger(storage.DB, unit, property, time.Now())
	if err != nil {
		if services.IsSkipUnit(err) {
			log.Printf("ledger regeneration: %v", err)
			return
		}
		log.Printf("ledger regeneration failed for unit %d: %v", unit.ID, err)
	}
}

type UnitInput struct {
	PropertyID                 uint    `json:"propertyID" validate:"required"`
	Number                     string  `json:"number" validate:"required,max=64"`
	TenantName                 string  `json:"tenantName" validate:"max=256"`
	TenantPhone                string  `json:"tenantPhone" validate:"max=64"`
	TenantEmail                string  `json:"tenantEmail" validate:"omitempty,email"`
	RentAmount                 float64 `json:"rentAmount" validate:"min=0"`
	MoveInDate                 string  `json:"moveInDate" validate:"max=10"`
	LeaseStartDate             string  `json:"leaseStartDate" validate:"max=10"`
	LeaseEndDate               string  `json:"leaseEndDate" validate:"max=10"`
	SecurityDeposit            float64 `json:"securityDeposit" validate:"min=0"`
	RentIncrementAmount        float64 `json:"rentIncrementAmount" validate:"min=0"`
	RentIncrementEffectiveDate string  `json:"rentIncrementEffectiveDate" validate:"max=10"`
}
