package companyapimodels

import (
	"work-tracker-backend/models"
	dbmodels "work-tracker-backend/models/db"

	apimodels "work-tracker-backend/models/api"
)

type CompanyData struct {
	Name        string  `json:"name"`
	CostPerHour float64 `json:"cost_per_hour"`
	Currency    string  `json:"currency"`
}

func (d CompanyData) Validate() error {
	if d.Name == "" {
		return models.NewValidationError("не указано название компании")
	}
	if d.CostPerHour <= 0 {
		return models.NewValidationError("ставка за час должна быть больше нуля")
	}
	if d.CostPerHour > dbmodels.MaxCostPerHour {
		return models.NewValidationError("ставка за час не может превышать %v", dbmodels.MaxCostPerHour)
	}
	if d.Currency == "" {
		return models.NewValidationError("не указана валюта")
	}
	return nil
}

type CompanyView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CostPerHour float64 `json:"cost_per_hour"`
	Currency    string  `json:"currency"`
	IsActive    bool    `json:"is_active"`
}

func CompanyConvert(rec dbmodels.Company) CompanyView {
	return CompanyView{
		ID:          rec.ID,
		Name:        rec.Name,
		CostPerHour: rec.CostPerHour,
		Currency:    rec.Currency,
		IsActive:    rec.IsActive,
	}
}

type CompanyFilter struct {
	apimodels.Pagination
	Name       string `json:"name"`        // поиск по подстроке названия
	OnlyActive bool   `json:"only_active"` // не показывать деактивированные
}
