package extensionhandler

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"work-tracker-backend/db"
	extensionstore "work-tracker-backend/lib/extension/store"
	"work-tracker-backend/lib/smtp"
	taskstore "work-tracker-backend/lib/task/store"
	spaceusersstore "work-tracker-backend/lib/users/store"
	initchecker "work-tracker-backend/lib/utils/init-checker"
	"work-tracker-backend/models"
	extensionapimodels "work-tracker-backend/models/api/extension"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(spaceID, taskID, userID string, data extensionapimodels.ExtensionRequestData) (id string, err error)
	List(spaceID string, filter extensionapimodels.ExtensionFilter) (list []extensionapimodels.ExtensionView, rowCount int64, err error)
	Approve(spaceID, id, deciderID string) error
	Reject(spaceID, id, deciderID string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:     extensionstore.NewInstance(db.DB),
		taskStore: taskstore.NewInstance(db.DB),
		userStore: spaceusersstore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
		"taskStore", instance.taskStore,
		"userStore", instance.userStore,
	)
	Instance = instance
}

type impl struct {
	store     extensionstore.Provider
	taskStore taskstore.Provider
	userStore spaceusersstore.Provider
}

func (i impl) getLogger(spaceID, requestID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("extension_request_id", requestID)
}

func (i impl) Create(spaceID, taskID, userID string, data extensionapimodels.ExtensionRequestData) (id string, err error) {
	if err = data.Validate(); err != nil {
		return "", err
	}
	task, err := i.taskStore.GetByID(spaceID, taskID)
	if err != nil {
		return "", errors.Wrap(err, "ошибка получения задачи")
	}
	if task == nil || !task.IsActive {
		return "", models.NewNotFoundError("задача не найдена")
	}
	if !task.IsAssignee(userID) {
		return "", models.NewPermissionError("пользователь не назначен на задачу")
	}
	if task.Status.IsFinal() {
		return "", models.NewInvalidStateError("нельзя перенести срок завершенной задачи")
	}
	rec := dbmodels.ExtensionRequest{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		TaskID:          taskID,
		RequestedByID:   userID,
		ProposedDueDate: *data.ProposedDueDate,
		Reason:          data.Reason,
		Status:          models.ExtensionStatusPending,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания запроса на перенос срока")
	}
	i.getLogger(spaceID, id).Info("создан запрос на перенос срока")
	return id, nil
}

func (i impl) List(spaceID string, filter extensionapimodels.ExtensionFilter) ([]extensionapimodels.ExtensionView, int64, error) {
	rowCount, err := i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка запросов")
	}
	list, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка запросов")
	}
	result := make([]extensionapimodels.ExtensionView, 0, len(list))
	for _, rec := range list {
		result = append(result, extensionapimodels.ExtensionConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Approve(spaceID, id, deciderID string) error {
	rec, err := i.getPending(spaceID, id)
	if err != nil {
		return err
	}
	// одобрение меняет только срок задачи, статусную машину не трогаем
	err = i.taskStore.Update(spaceID, rec.TaskID, map[string]interface{}{"due_date": rec.ProposedDueDate})
	if err != nil {
		return errors.Wrap(err, "ошибка обновления срока задачи")
	}
	if err = i.decide(rec, models.ExtensionStatusApproved, deciderID); err != nil {
		return err
	}
	i.getLogger(spaceID, id).Info("запрос на перенос срока одобрен")
	go i.notifyDecision(*rec, models.ExtensionStatusApproved)
	return nil
}

func (i impl) Reject(spaceID, id, deciderID string) error {
	rec, err := i.getPending(spaceID, id)
	if err != nil {
		return err
	}
	if err = i.decide(rec, models.ExtensionStatusRejected, deciderID); err != nil {
		return err
	}
	i.getLogger(spaceID, id).Info("запрос на перенос срока отклонен")
	go i.notifyDecision(*rec, models.ExtensionStatusRejected)
	return nil
}

func (i impl) getPending(spaceID, id string) (*dbmodels.ExtensionRequest, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения запроса")
	}
	if rec == nil {
		return nil, models.NewNotFoundError("запрос не найден")
	}
	if rec.Status.IsDecided() {
		return nil, models.NewInvalidStateError("решение по запросу уже принято")
	}
	return rec, nil
}

func (i impl) decide(rec *dbmodels.ExtensionRequest, status models.ExtensionStatus, deciderID string) error {
	now := time.Now()
	updMap := map[string]interface{}{
		"status":        status,
		"decided_by_id": deciderID,
		"decided_at":    now,
	}
	if err := i.store.Update(rec.SpaceID, rec.ID, updMap); err != nil {
		return errors.Wrap(err, "ошибка сохранения решения по запросу")
	}
	rec.Status = status
	return nil
}

func (i impl) notifyDecision(rec dbmodels.ExtensionRequest, status models.ExtensionStatus) {
	logger := i.getLogger(rec.SpaceID, rec.ID)
	if smtp.Instance == nil {
		return
	}
	user, err := i.userStore.GetByID(rec.RequestedByID)
	if err != nil || user == nil || user.Email == "" {
		return
	}
	decision := "одобрен"
	if status == models.ExtensionStatusRejected {
		decision = "отклонен"
	}
	title := ""
	if rec.Task != nil {
		title = rec.Task.Title
	}
	message := fmt.Sprintf("Запрос на перенос срока по задаче \"%v\" %v.", title, decision)
	if err = smtp.Instance.SendEMail(user.Email, message, "Перенос срока задачи"); err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления о решении по запросу")
	}
}
