package dbmodels

import (
	"work-tracker-backend/models"
)

const MaxCostPerHour = 1000

// Company - компания-клиент, владелец задач и источник часовой ставки.
// Никогда не удаляется физически, только деактивируется.
type Company struct {
	BaseSpaceModel
	Name        string  `gorm:"type:varchar(255)"`
	CostPerHour float64 // ставка за час работ
	Currency    string  `gorm:"type:varchar(3)"`
	IsActive    bool    `gorm:"default:true"`
}

func (c *Company) Validate() error {
	if err := c.BaseSpaceModel.Validate(); err != nil {
		return models.NewValidationError(err.Error())
	}
	if c.Name == "" {
		return models.NewValidationError("не указано название компании")
	}
	if c.CostPerHour <= 0 {
		return models.NewValidationError("ставка за час должна быть больше нуля")
	}
	if c.CostPerHour > MaxCostPerHour {
		return models.NewValidationError("ставка за час не может превышать %v", MaxCostPerHour)
	}
	if c.Currency == "" {
		return models.NewValidationError("не указана валюта")
	}
	return nil
}
