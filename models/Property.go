package models

import (
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	OwnerID      uint   `json:"ownerID" gorm:"index"`
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Notes        string `json:"notes" gorm:"type:text"`
	Units        []Unit `json:"units" gorm:"foreignKey:PropertyID;references:ID"`

	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
