package dbmodels

import (
	"time"

	"work-tracker-backend/models"
)

// ExtensionRequest - запрос на перенос срока задачи.
// Одобрение меняет только срок задачи, статусную машину не трогает.
type ExtensionRequest struct {
	BaseSpaceModel
	TaskID          string `gorm:"type:varchar(36);index"`
	Task            *Task  `gorm:"foreignKey:TaskID"`
	RequestedByID   string `gorm:"type:varchar(36)"`
	ProposedDueDate time.Time
	Reason          string
	Status          models.ExtensionStatus `gorm:"type:varchar(20);index"`
	DecidedByID     string                 `gorm:"type:varchar(36)"`
	DecidedAt       *time.Time
}
