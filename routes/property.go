package routes

import (
	"rental-ledger-server/models"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func CreateProperty(ctx iris.Context) {
	var input PropertyInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	ownerID, _ := ctx.Values().Get("userID").(uint)

	property := models.Property{
		OwnerID:      ownerID,
		Name:         input.Name,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Notes:        input.Notes,
	}

	if result := storage.DB.Create(&property); result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(property)
}

func GetProperties(ctx iris.Context) {
	var properties []models.Property
	if err := storage.DB.Preload("Units").Order("name").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.Preload("Units").First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(property)
}

func UpdateProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property.Name = input.Name
	property.AddressLine1 = input.AddressLine1
	property.AddressLine2 = input.AddressLine2
	property.City = input.City
	property.State = input.State
	property.Zip = input.Zip
	property.Notes = input.Notes

	// Renaming a property must reach the denormalized copies on its units
	// and rent records.
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&property).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Unit{}).Where("property_id = ?", property.ID).
			Update("property_name", property.Name).Error; err != nil {
			return err
		}
		return tx.Model(&models.RentRecord{}).Where("property_id = ?", property.ID).
			Update("property_name", property.Name).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(property)
}

// DeleteProperty removes a property and cascades to its units and their
// rent records in one transaction.
func DeleteProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("property_id = ?", property.ID).Delete(&models.RentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.Unit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&property).Error
	})
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "delete", "property", property.ID, property, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

type PropertyInput struct {
	Name         string `json:"name" validate:"required,max=256"`
	AddressLine1 string `json:"addressLine1" validate:"max=512"`
	AddressLine2 string `json:"addressLine2" validate:"max=512"`
	City         string `json:"city" validate:"max=256"`
	State        string `json:"state" validate:"max=256"`
	Zip          string `json:"zip" validate:"max=32"`
	Notes        string `json:"notes"`
}
