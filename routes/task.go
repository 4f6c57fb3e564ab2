package routes

import (
	"rental-ledger-server/models"
	"rental-ledger-server/storage"
	"rental-ledger-server/utils"

	"github.com/kataras/iris/v12"
)

func GetTasks(ctx iris.Context) {
	var tasks []models.Task
	if err := storage.DB.Order("created_at").Find(&tasks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(tasks)
}

func CreateTask(ctx iris.Context) {
	var input TaskInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	task := models.Task{
		Description: input.Description,
		Status:      "Open",
		PropertyID:  input.PropertyID,
	}
	if err := storage.DB.Create(&task).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(task)
}

// ToggleTask flips a task between the board's two columns.
func ToggleTask(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var task models.Task
	if err := storage.DB.First(&task, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if task.Status == "Open" {
		task.Status = "Done"
	} else {
		task.Status = "Open"
	}
	if err := storage.DB.Save(&task).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(task)
}

func DeleteTask(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var task models.Task
	if err := storage.DB.First(&task, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if err := storage.DB.Delete(&task).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

type TaskInput struct {
	Description string `json:"description" validate:"required,max=1024"`
	PropertyID  uint   `json:"propertyID"`
}
