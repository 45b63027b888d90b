package taskhandler

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"work-tracker-backend/db"
	companystore "work-tracker-backend/lib/company/store"
	"work-tracker-backend/lib/costing"
	"work-tracker-backend/lib/smtp"
	sessionstore "work-tracker-backend/lib/task/session-store"
	taskstore "work-tracker-backend/lib/task/store"
	spaceusersstore "work-tracker-backend/lib/users/store"
	initchecker "work-tracker-backend/lib/utils/init-checker"
	"work-tracker-backend/models"
	taskapimodels "work-tracker-backend/models/api/task"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(spaceID, actorID string, data taskapimodels.TaskData) (id string, err error)
	GetByID(spaceID, taskID string) (taskapimodels.TaskView, error)
	List(spaceID string, filter taskapimodels.TaskFilter) (list []taskapimodels.TaskView, rowCount int64, err error)
	History(spaceID, taskID string) ([]taskapimodels.StatusHistoryView, error)
	Sessions(spaceID, taskID string) ([]taskapimodels.SessionView, error)
	Start(spaceID, taskID, userID string) error
	Pause(spaceID, taskID, userID string) error
	Resume(spaceID, taskID, userID string) error
	Complete(spaceID, taskID, userID string, data taskapimodels.CompleteData) error
	AddManualTime(spaceID, taskID, userID string, data taskapimodels.ManualTimeData) error
	Recompute(spaceID, taskID string) error
	Deactivate(spaceID, taskID string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:        taskstore.NewInstance(db.DB),
		sessionStore: sessionstore.NewInstance(db.DB),
		companyStore: companystore.NewInstance(db.DB),
		userStore:    spaceusersstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
		"sessionStore", instance.sessionStore,
		"companyStore", instance.companyStore,
		"userStore", instance.userStore,
	)
	Instance = instance
}

type impl struct {
	store        taskstore.Provider
	sessionStore sessionstore.Provider
	companyStore companystore.Provider
	userStore    spaceusersstore.Provider
}

func (i impl) getLogger(spaceID, taskID, userID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("task_id", taskID).
		WithField("user_id", userID)
}

func (i impl) getTask(spaceID, taskID string) (*dbmodels.Task, error) {
	rec, err := i.store.GetByID(spaceID, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения задачи")
	}
	if rec == nil || !rec.IsActive {
		return nil, models.NewNotFoundError("задача не найдена")
	}
	return rec, nil
}

// getActor - имя автора для записи в историю, при недоступном
// справочнике сотрудников пишем идентификатор
func (i impl) getActor(userID string) string {
	if userID == "" {
		return models.SystemUser
	}
	user, err := i.userStore.GetByID(userID)
	if err != nil || user == nil {
		return userID
	}
	return user.GetFullName()
}

func (i impl) Create(spaceID, actorID string, data taskapimodels.TaskData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", err
	}
	company, err := i.companyStore.GetByID(spaceID, data.CompanyID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения компании")
	}
	if company == nil || !company.IsActive {
		return "", models.NewNotFoundError("компания не найдена")
	}
	priority := data.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	rec := dbmodels.Task{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Title:           data.Title,
		Description:     data.Description,
		CompanyID:       data.CompanyID,
		AssignedUserIDs: data.AssignedUserIDs,
		Status:          models.TaskStatusNotStarted,
		Priority:        priority,
		EstimatedHours:  data.EstimatedHours,
		DueDate:         data.DueDate,
		StatusHistory:   dbmodels.StatusHistory{}.Append(models.TaskStatusNotStarted, i.getActor(actorID), "создана задача"),
		IsActive:        true,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания задачи")
	}
	i.getLogger(spaceID, id, actorID).Info("создана задача")
	return id, nil
}

func (i impl) GetByID(spaceID, taskID string) (taskapimodels.TaskView, error) {
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return taskapimodels.TaskView{}, err
	}
	return taskapimodels.TaskConvert(*rec), nil
}

func (i impl) List(spaceID string, filter taskapimodels.TaskFilter) ([]taskapimodels.TaskView, int64, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, models.NewValidationError("недопустимый статус: %v", filter.Status)
	}
	rowCount, err := i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка задач")
	}
	list, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка задач")
	}
	result := make([]taskapimodels.TaskView, 0, len(list))
	for _, rec := range list {
		result = append(result, taskapimodels.TaskConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) History(spaceID, taskID string) ([]taskapimodels.StatusHistoryView, error) {
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return nil, err
	}
	result := make([]taskapimodels.StatusHistoryView, 0, len(rec.StatusHistory))
	for _, entry := range rec.StatusHistory {
		result = append(result, taskapimodels.HistoryConvert(entry))
	}
	return result, nil
}

func (i impl) Sessions(spaceID, taskID string) ([]taskapimodels.SessionView, error) {
	if _, err := i.getTask(spaceID, taskID); err != nil {
		return nil, err
	}
	list, err := i.sessionStore.ListByTask(spaceID, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сессий задачи")
	}
	result := make([]taskapimodels.SessionView, 0, len(list))
	for _, rec := range list {
		result = append(result, taskapimodels.SessionConvert(rec))
	}
	return result, nil
}

func (i impl) Start(spaceID, taskID, userID string) error {
	logger := i.getLogger(spaceID, taskID, userID)
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	if !rec.IsAssignee(userID) {
		return models.NewPermissionError("пользователь не назначен на задачу")
	}
	if rec.Status.IsFinal() {
		return models.NewInvalidStateError("задача уже завершена")
	}
	session := dbmodels.TimeSession{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: time.Now(),
		Status:    models.SessionStatusActive,
	}
	if _, err = i.sessionStore.Create(session); err != nil {
		if models.IsErrorKind(err, models.ErrKindConflict) {
			return err
		}
		return errors.Wrap(err, "ошибка открытия сессии учета времени")
	}
	if rec.Status != models.TaskStatusInProgress {
		if err = i.transit(rec, models.TaskStatusInProgress, userID, "работа начата"); err != nil {
			return err
		}
	}
	logger.Info("открыта сессия учета времени")
	return nil
}

func (i impl) Pause(spaceID, taskID, userID string) error {
	logger := i.getLogger(spaceID, taskID, userID)
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	if rec.Status.IsFinal() {
		return models.NewInvalidStateError("задача уже завершена")
	}
	if err = i.stopUserSession(rec, userID); err != nil {
		return err
	}
	if depErr := i.recompute(rec); depErr != nil {
		logger.WithError(depErr).Warn("стоимость не пересчитана, время учтено")
	}
	if rec.Status != models.TaskStatusPaused {
		if err = i.transit(rec, models.TaskStatusPaused, userID, "работа приостановлена"); err != nil {
			return err
		}
	}
	logger.Info("сессия учета времени закрыта, задача приостановлена")
	return nil
}

func (i impl) Resume(spaceID, taskID, userID string) error {
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	if rec.Status != models.TaskStatusPaused {
		return models.NewInvalidStateError("возобновить можно только приостановленную задачу")
	}
	return i.Start(spaceID, taskID, userID)
}

func (i impl) Complete(spaceID, taskID, userID string, data taskapimodels.CompleteData) error {
	logger := i.getLogger(spaceID, taskID, userID)
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	if rec.Status.IsFinal() {
		return models.NewInvalidStateError("задача уже завершена")
	}
	if !rec.IsAssignee(userID) {
		return models.NewPermissionError("пользователь не назначен на задачу")
	}
	active, err := i.sessionStore.GetActive(spaceID, taskID, userID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения активной сессии")
	}
	if active != nil {
		if err = i.stopUserSession(rec, userID); err != nil {
			return err
		}
	}
	if depErr := i.recompute(rec); depErr != nil {
		logger.WithError(depErr).Warn("стоимость не пересчитана, время учтено")
	}
	// по задаче без учтенного времени допускается разовая ручная запись
	if rec.TotalTimeSpent == 0 && data.ManualMinutes > 0 {
		if err = i.addManualSession(rec, userID, data.ManualMinutes); err != nil {
			return err
		}
		if depErr := i.recompute(rec); depErr != nil {
			logger.WithError(depErr).Warn("стоимость не пересчитана, время учтено")
		}
	}
	if err = i.transit(rec, models.TaskStatusCompleted, userID, "задача завершена"); err != nil {
		return err
	}
	// финальная фиксация стоимости
	if depErr := i.recompute(rec); depErr != nil {
		logger.WithError(depErr).Warn("итоговая стоимость не зафиксирована")
	}
	logger.Info("задача завершена")
	go i.notifyCompleted(*rec)
	return nil
}

func (i impl) AddManualTime(spaceID, taskID, userID string, data taskapimodels.ManualTimeData) error {
	logger := i.getLogger(spaceID, taskID, userID)
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	if !rec.IsAssignee(userID) {
		return models.NewPermissionError("пользователь не назначен на задачу")
	}
	if rec.Status.IsFinal() {
		return models.NewInvalidStateError("нельзя добавить время в завершенную задачу")
	}
	if err = i.addManualSession(rec, userID, data.Minutes); err != nil {
		return err
	}
	if depErr := i.recompute(rec); depErr != nil {
		logger.WithError(depErr).Warn("стоимость не пересчитана, время учтено")
	}
	logger.WithField("minutes", data.Minutes).Info("добавлена ручная запись времени")
	return nil
}

// Recompute - принудительный пересчет итогов, используется фоновой сверкой
func (i impl) Recompute(spaceID, taskID string) error {
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	return i.recompute(rec)
}

func (i impl) Deactivate(spaceID, taskID string) error {
	rec, err := i.getTask(spaceID, taskID)
	if err != nil {
		return err
	}
	err = i.store.Update(spaceID, rec.ID, map[string]interface{}{"is_active": false})
	if err != nil {
		return errors.Wrap(err, "ошибка деактивации задачи")
	}
	i.getLogger(spaceID, taskID, "").Info("задача деактивирована")
	return nil
}

// transit - смена статуса с записью истории. Статус и история пишутся
// одним обновлением, чтобы история не разошлась со статусом.
func (i impl) transit(rec *dbmodels.Task, next models.TaskStatus, actorID, comment string) error {
	if !rec.Status.CanTransitTo(next) {
		return models.NewInvalidStateError("переход %v -> %v недопустим", rec.Status.ToHuman(), next.ToHuman())
	}
	history := rec.StatusHistory.Append(next, i.getActor(actorID), comment)
	updMap := map[string]interface{}{
		"status":         next,
		"status_history": history,
	}
	if err := i.store.Update(rec.SpaceID, rec.ID, updMap); err != nil {
		return errors.Wrap(err, "ошибка смены статуса задачи")
	}
	rec.Status = next
	rec.StatusHistory = history
	return nil
}

// stopUserSession закрывает активную сессию вызывающего:
// проставляет окончание, длительность и снимок стоимости
func (i impl) stopUserSession(rec *dbmodels.Task, userID string) error {
	active, err := i.sessionStore.GetActive(rec.SpaceID, rec.ID, userID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения активной сессии")
	}
	if active == nil {
		return models.NewNotFoundError("нет активной сессии по задаче")
	}
	now := time.Now()
	duration := int(math.Round(now.Sub(active.StartedAt).Minutes()))
	updMap := map[string]interface{}{
		"ended_at":         now,
		"duration_minutes": duration,
		"status":           models.SessionStatusCompleted,
		"cost":             i.sessionCost(rec, duration),
	}
	if err = i.sessionStore.Update(rec.SpaceID, active.ID, updMap); err != nil {
		return errors.Wrap(err, "ошибка закрытия сессии учета времени")
	}
	return nil
}

func (i impl) addManualSession(rec *dbmodels.Task, userID string, minutes int) error {
	now := time.Now()
	session := dbmodels.TimeSession{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: rec.SpaceID,
		},
		TaskID:          rec.ID,
		UserID:          userID,
		StartedAt:       now,
		EndedAt:         &now,
		DurationMinutes: minutes,
		Status:          models.SessionStatusManual,
		Cost:            i.sessionCost(rec, minutes),
	}
	if _, err := i.sessionStore.Create(session); err != nil {
		return errors.Wrap(err, "ошибка добавления ручной записи времени")
	}
	return nil
}

// sessionCost - снимок стоимости сессии, учет времени важнее стоимости,
// поэтому недоступная компания дает ноль, а не ошибку
func (i impl) sessionCost(rec *dbmodels.Task, minutes int) float64 {
	if rec.Company == nil || !rec.Company.IsActive {
		return 0
	}
	return costing.RoundMoney(costing.Cost(minutes, rec.Company.CostPerHour))
}

// recompute выводит итоги задачи заново из полного набора сессий.
// Повторный запуск без новых сессий дает тот же результат, поэтому
// операцию безопасно перезапускать после частичного сбоя.
// Возвращаемая ошибка - только о недоступности компании: время уже
// записано, стоимость осталась прежней.
func (i impl) recompute(rec *dbmodels.Task) error {
	sessions, err := i.sessionStore.ListByTask(rec.SpaceID, rec.ID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения сессий задачи")
	}
	total := 0
	for _, session := range sessions {
		total += session.DurationMinutes
	}
	updMap := map[string]interface{}{
		"total_time_spent": total,
	}
	var depErr error
	company, err := i.companyStore.GetByID(rec.SpaceID, rec.CompanyID)
	if err != nil {
		return errors.Wrap(err, "ошибка получения компании")
	}
	if company == nil || !company.IsActive {
		depErr = models.NewDependencyMissingError("компания недоступна, стоимость не пересчитана")
	} else {
		updMap["total_cost"] = costing.RoundMoney(costing.Cost(total, company.CostPerHour))
		rec.TotalCost = updMap["total_cost"].(float64)
	}
	if err = i.store.Update(rec.SpaceID, rec.ID, updMap); err != nil {
		return errors.Wrap(err, "ошибка записи итогов задачи")
	}
	rec.TotalTimeSpent = total
	return depErr
}

func (i impl) notifyCompleted(rec dbmodels.Task) {
	logger := i.getLogger(rec.SpaceID, rec.ID, "")
	if smtp.Instance == nil {
		return
	}
	for _, userID := range rec.AssignedUserIDs {
		user, err := i.userStore.GetByID(userID)
		if err != nil || user == nil || user.Email == "" {
			continue
		}
		message := fmt.Sprintf("Задача \"%v\" завершена. Учтено минут: %v.", rec.Title, rec.TotalTimeSpent)
		if err = smtp.Instance.SendEMail(user.Email, message, "Задача завершена"); err != nil {
			logger.WithError(err).Error("ошибка отправки уведомления о завершении задачи")
		}
	}
}
