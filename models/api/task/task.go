package taskapimodels

import (
	"time"

	"work-tracker-backend/models"
	apimodels "work-tracker-backend/models/api"
	dbmodels "work-tracker-backend/models/db"
)

type TaskData struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	CompanyID       string              `json:"company_id"`
	AssignedUserIDs []string            `json:"assigned_user_ids"`
	Priority        models.TaskPriority `json:"priority"`
	EstimatedHours  float64             `json:"estimated_hours"`
	DueDate         *time.Time          `json:"due_date"`
}

func (d TaskData) Validate() error {
	if d.Title == "" {
		return models.NewValidationError("не указано название задачи")
	}
	if d.CompanyID == "" {
		return models.NewValidationError("не указана компания")
	}
	if len(d.AssignedUserIDs) == 0 {
		return models.NewValidationError("не указаны исполнители задачи")
	}
	if d.Priority != "" && !d.Priority.IsValid() {
		return models.NewValidationError("недопустимый приоритет: %v", d.Priority)
	}
	if d.EstimatedHours < 0 {
		return models.NewValidationError("оценка в часах не может быть отрицательной")
	}
	return nil
}

type CompleteData struct {
	ManualMinutes int `json:"manual_minutes"` // используется, если по задаче не учтено время
}

type ManualTimeData struct {
	Minutes int `json:"minutes"`
}

func (d ManualTimeData) Validate() error {
	if d.Minutes <= 0 {
		return models.NewValidationError("длительность должна быть положительным числом минут")
	}
	return nil
}

type TaskFilter struct {
	apimodels.Pagination
	CompanyID string            `json:"company_id"`
	UserID    string            `json:"user_id"`
	Status    models.TaskStatus `json:"status"`
}

type TaskView struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	CompanyID       string              `json:"company_id"`
	CompanyName     string              `json:"company_name"`
	AssignedUserIDs []string            `json:"assigned_user_ids"`
	Status          models.TaskStatus   `json:"status"`
	StatusName      string              `json:"status_name"`
	Priority        models.TaskPriority `json:"priority"`
	EstimatedHours  float64             `json:"estimated_hours"`
	DueDate         *time.Time          `json:"due_date"`
	TotalTimeSpent  int                 `json:"total_time_spent"` // минуты
	TotalCost       float64             `json:"total_cost"`
	IsActive        bool                `json:"is_active"`
	CreatedAt       time.Time           `json:"created_at"`
}

func TaskConvert(rec dbmodels.Task) TaskView {
	view := TaskView{
		ID:              rec.ID,
		Title:           rec.Title,
		Description:     rec.Description,
		CompanyID:       rec.CompanyID,
		AssignedUserIDs: rec.AssignedUserIDs,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		Priority:        rec.Priority,
		EstimatedHours:  rec.EstimatedHours,
		DueDate:         rec.DueDate,
		TotalTimeSpent:  rec.TotalTimeSpent,
		TotalCost:       rec.TotalCost,
		IsActive:        rec.IsActive,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Company != nil {
		view.CompanyName = rec.Company.Name
	}
	return view
}

type StatusHistoryView struct {
	Status     models.TaskStatus `json:"status"`
	StatusName string            `json:"status_name"`
	Actor      string            `json:"actor"`
	Timestamp  time.Time         `json:"timestamp"`
	Comment    string            `json:"comment"`
}

func HistoryConvert(entry dbmodels.StatusHistoryEntry) StatusHistoryView {
	return StatusHistoryView{
		Status:     entry.Status,
		StatusName: entry.Status.ToHuman(),
		Actor:      entry.Actor,
		Timestamp:  entry.Timestamp,
		Comment:    entry.Comment,
	}
}

type SessionView struct {
	ID              string               `json:"id"`
	TaskID          string               `json:"task_id"`
	UserID          string               `json:"user_id"`
	StartedAt       time.Time            `json:"started_at"`
	EndedAt         *time.Time           `json:"ended_at"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          models.SessionStatus `json:"status"`
	Cost            float64              `json:"cost"`
}

func SessionConvert(rec dbmodels.TimeSession) SessionView {
	return SessionView{
		ID:              rec.ID,
		TaskID:          rec.TaskID,
		UserID:          rec.UserID,
		StartedAt:       rec.StartedAt,
		EndedAt:         rec.EndedAt,
		DurationMinutes: rec.DurationMinutes,
		Status:          rec.Status,
		Cost:            rec.Cost,
	}
}
