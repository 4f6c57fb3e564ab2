package models

import (
	"gorm.io/gorm"
)

type Task struct {
	gorm.Model
	Description string `json:"description"`
	Status      string `json:"status" gorm:"type:varchar(16);default:Open;index"` // Open, Done
	PropertyID  uint   `json:"propertyID" gorm:"index"`
}
