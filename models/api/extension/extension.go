package extensionapimodels

import (
	"time"

	"work-tracker-backend/models"
	apimodels "work-tracker-backend/models/api"
	dbmodels "work-tracker-backend/models/db"
)

type ExtensionRequestData struct {
	ProposedDueDate *time.Time `json:"proposed_due_date"`
	Reason          string     `json:"reason"`
}

func (d ExtensionRequestData) Validate() error {
	if d.ProposedDueDate == nil {
		return models.NewValidationError("не указан новый срок")
	}
	if d.Reason == "" {
		return models.NewValidationError("не указана причина переноса срока")
	}
	return nil
}

type ExtensionFilter struct {
	apimodels.Pagination
	TaskID string                 `json:"task_id"`
	Status models.ExtensionStatus `json:"status"`
}

type ExtensionView struct {
	ID              string                 `json:"id"`
	TaskID          string                 `json:"task_id"`
	TaskTitle       string                 `json:"task_title"`
	RequestedByID   string                 `json:"requested_by_id"`
	ProposedDueDate time.Time              `json:"proposed_due_date"`
	Reason          string                 `json:"reason"`
	Status          models.ExtensionStatus `json:"status"`
	DecidedByID     string                 `json:"decided_by_id,omitempty"`
	DecidedAt       *time.Time             `json:"decided_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func ExtensionConvert(rec dbmodels.ExtensionRequest) ExtensionView {
	view := ExtensionView{
		ID:              rec.ID,
		TaskID:          rec.TaskID,
		RequestedByID:   rec.RequestedByID,
		ProposedDueDate: rec.ProposedDueDate,
		Reason:          rec.Reason,
		Status:          rec.Status,
		DecidedByID:     rec.DecidedByID,
		DecidedAt:       rec.DecidedAt,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Task != nil {
		view.TaskTitle = rec.Task.Title
	}
	return view
}
