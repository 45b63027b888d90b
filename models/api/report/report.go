package reportapimodels

import (
	"time"

	"work-tracker-backend/models"
)

// ReportFilter - фильтр задач для отчетов, условия объединяются по И
type ReportFilter struct {
	CompanyID string     `json:"company_id"`
	UserID    string     `json:"user_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
}

type ReportRequest struct {
	Kind   models.ReportKind `json:"kind"`
	Filter ReportFilter      `json:"filter"`
}

func (r ReportRequest) Validate() error {
	if !r.Kind.IsValid() {
		return models.NewValidationError("неизвестный вид отчета: %v", r.Kind)
	}
	if r.Filter.DateFrom != nil && r.Filter.DateTo != nil && r.Filter.DateTo.Before(*r.Filter.DateFrom) {
		return models.NewValidationError("дата окончания периода раньше даты начала")
	}
	return nil
}

// TaskBrief - краткая строка задачи внутри отчетов
type TaskBrief struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	CompanyName    string            `json:"company_name"`
	Status         models.TaskStatus `json:"status"`
	TimeSpentMin   int               `json:"time_spent_min"`
	Cost           float64           `json:"cost"`
	CreatedAt      time.Time         `json:"created_at"`
}

type GeneralReport struct {
	TotalTasks     int                       `json:"total_tasks"`
	CountsByStatus map[models.TaskStatus]int `json:"counts_by_status"`
	TotalTimeMin   int                       `json:"total_time_min"`
	TotalCost      float64                   `json:"total_cost"`
	TimeByCompany  map[string]int            `json:"time_by_company"` // минуты по названию компании
	TimeByUser     map[string]int            `json:"time_by_user"`    // минуты по имени исполнителя
}

type CompanyReportItem struct {
	CompanyID       string                    `json:"company_id"`
	CompanyName     string                    `json:"company_name"`
	TaskCount       int                       `json:"task_count"`
	TotalTimeMin    int                       `json:"total_time_min"`
	TotalCost       float64                   `json:"total_cost"`
	StatusHistogram map[models.TaskStatus]int `json:"status_histogram"`
	Tasks           []TaskBrief               `json:"tasks"` // первые 10 в исходном порядке
}

type CompanyReport struct {
	Companies []CompanyReportItem `json:"companies"`
}

type UserReportItem struct {
	UserID            string                    `json:"user_id"`
	UserName          string                    `json:"user_name"`
	TaskCount         int                       `json:"task_count"`
	TotalTimeMin      int                       `json:"total_time_min"`
	StatusHistogram   map[models.TaskStatus]int `json:"status_histogram"`
	ProductivityScore float64                   `json:"productivity_score"`
	RecentTasks       []TaskBrief               `json:"recent_tasks"` // до 10 последних
}

type UserReport struct {
	Users []UserReportItem `json:"users"`
}

type TimeReport struct {
	TotalTimeMin      int            `json:"total_time_min"`
	DailyBreakdown    map[string]int `json:"daily_breakdown"` // ключ YYYY-MM-DD, минуты
	AvgTimePerTaskMin float64        `json:"avg_time_per_task_min"`
	TopTasks          []TaskBrief    `json:"top_tasks"` // топ 10 по времени
}

type CostReport struct {
	TotalCost     float64            `json:"total_cost"`
	CostByCompany map[string]float64 `json:"cost_by_company"`
	CostByMonth   map[string]float64 `json:"cost_by_month"` // ключ YYYY-MM
	TopTasks      []TaskBrief        `json:"top_tasks"`     // топ 10 по стоимости
}
