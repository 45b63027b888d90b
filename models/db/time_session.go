package dbmodels

import (
	"time"

	"work-tracker-backend/models"
)

// TimeSession - одна запись учета времени по паре (задача, пользователь).
// Активная сессия не имеет времени окончания и нулевую длительность.
// Инвариант: не более одной активной сессии на пару (task_id, user_id),
// обеспечивается частичным уникальным индексом в БД (см. db/migration.go).
type TimeSession struct {
	BaseSpaceModel
	TaskID          string `gorm:"type:varchar(36);index"`
	Task            *Task  `gorm:"foreignKey:TaskID"`
	UserID          string `gorm:"type:varchar(36);index"`
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes int
	Status          models.SessionStatus `gorm:"type:varchar(20);index"`
	Cost            float64
}

func (s TimeSession) IsActive() bool {
	return s.Status == models.SessionStatusActive
}
