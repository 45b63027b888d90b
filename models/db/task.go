package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"work-tracker-backend/models"

	"github.com/lib/pq"
)

// Task - задача с жизненным циклом статусов и расчетными полями времени/стоимости.
// Статус и расчетные поля меняются только через обработчик задач.
type Task struct {
	BaseSpaceModel
	Title           string `gorm:"type:varchar(255)"`
	Description     string
	CompanyID       string   `gorm:"type:varchar(36);index"`
	Company         *Company `gorm:"foreignKey:CompanyID"`
	AssignedUserIDs pq.StringArray `gorm:"type:text[]"`
	Status          models.TaskStatus   `gorm:"type:varchar(20);index"`
	Priority        models.TaskPriority `gorm:"type:varchar(10)"`
	EstimatedHours  float64
	DueDate         *time.Time
	TotalTimeSpent  int     // минуты, всегда выводится из сессий
	TotalCost       float64 // округляется до копеек при записи
	StatusHistory   StatusHistory `gorm:"type:jsonb"`
	IsActive        bool          `gorm:"default:true"`
}

func (t Task) IsAssignee(userID string) bool {
	for _, id := range t.AssignedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LastHistoryStatus - статус последней записи истории,
// по инварианту обязан совпадать с текущим статусом задачи
func (t Task) LastHistoryStatus() models.TaskStatus {
	if len(t.StatusHistory) == 0 {
		return ""
	}
	return t.StatusHistory[len(t.StatusHistory)-1].Status
}

type StatusHistoryEntry struct {
	Status    models.TaskStatus `json:"status"`
	Actor     string            `json:"actor"`
	Timestamp time.Time         `json:"timestamp"`
	Comment   string            `json:"comment"`
}

// StatusHistory - упорядоченный журнал смен статуса, только добавление в конец
type StatusHistory []StatusHistoryEntry

func (j StatusHistory) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *StatusHistory) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

func (j StatusHistory) Append(status models.TaskStatus, actor, comment string) StatusHistory {
	return append(j, StatusHistoryEntry{
		Status:    status,
		Actor:     actor,
		Timestamp: time.Now(),
		Comment:   comment,
	})
}
