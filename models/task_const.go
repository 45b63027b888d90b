package models

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusPaused     TaskStatus = "PAUSED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

var taskStatusHumanName = map[TaskStatus]string{
	TaskStatusNotStarted: "Не начата",
	TaskStatusInProgress: "В работе",
	TaskStatusPaused:     "Приостановлена",
	TaskStatusCompleted:  "Завершена",
}

func (s TaskStatus) ToHuman() string {
	if human, exist := taskStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// TaskStatusCompleted - терминальный статус, из него переходов нет
func (s TaskStatus) IsFinal() bool {
	return s == TaskStatusCompleted
}

var taskStatusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusNotStarted: {TaskStatusInProgress, TaskStatusCompleted},
	TaskStatusInProgress: {TaskStatusPaused, TaskStatusCompleted},
	TaskStatusPaused:     {TaskStatusInProgress, TaskStatusCompleted},
	TaskStatusCompleted:  {},
}

func (s TaskStatus) CanTransitTo(next TaskStatus) bool {
	for _, allowed := range taskStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsValid() bool {
	_, exist := taskStatusTransitions[s]
	return exist
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusManual    SessionStatus = "MANUAL"
)

type ExtensionStatus string

const (
	ExtensionStatusPending  ExtensionStatus = "PENDING"
	ExtensionStatusApproved ExtensionStatus = "APPROVED"
	ExtensionStatusRejected ExtensionStatus = "REJECTED"
)

func (s ExtensionStatus) IsDecided() bool {
	return s == ExtensionStatusApproved || s == ExtensionStatusRejected
}

type ReportKind string

const (
	ReportKindGeneral   ReportKind = "general"
	ReportKindByCompany ReportKind = "by-company"
	ReportKindByUser    ReportKind = "by-user"
	ReportKindTime      ReportKind = "time"
	ReportKindCost      ReportKind = "cost"
)

func (k ReportKind) IsValid() bool {
	switch k {
	case ReportKindGeneral, ReportKindByCompany, ReportKindByUser, ReportKindTime, ReportKindCost:
		return true
	}
	return false
}
