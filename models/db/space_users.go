package dbmodels

import (
	"fmt"

	"work-tracker-backend/models"
)

// SpaceUser - сотрудник пространства. Аутентификация внешняя,
// запись нужна для назначений на задачи и отчетов по исполнителям.
type SpaceUser struct {
	BaseModel
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255)"`
	IsActive    bool
	PhoneNumber string `gorm:"type:varchar(15)"`
	SpaceID     string
	Role        models.UserRole `gorm:"type:varchar(50)"`
}

func (r SpaceUser) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}
