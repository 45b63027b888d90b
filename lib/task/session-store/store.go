package sessionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"work-tracker-backend/models"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.TimeSession) (id string, err error)
	GetActive(spaceID, taskID, userID string) (rec *dbmodels.TimeSession, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	ListByTask(spaceID, taskID string) (list []dbmodels.TimeSession, err error)
	ListByTaskIDs(spaceID string, taskIDs []string) (list []dbmodels.TimeSession, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// Create - условная вставка: две конкурирующие активные сессии по одной
// паре (задача, пользователь) отсекает частичный уникальный индекс,
// а не проверка чтением перед записью
func (i impl) Create(rec dbmodels.TimeSession) (id string, err error) {
	err = i.db.
		Omit("Task").
		Create(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.NewConflictError("по задаче уже есть активная сессия")
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetActive(spaceID, taskID, userID string) (*dbmodels.TimeSession, error) {
	rec := dbmodels.TimeSession{}
	err := i.db.
		Where("space_id = ?", spaceID).
		Where("task_id = ?", taskID).
		Where("user_id = ?", userID).
		Where("status = ?", models.SessionStatusActive).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(spaceID, id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.TimeSession{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByTask(spaceID, taskID string) (list []dbmodels.TimeSession, err error) {
	list = []dbmodels.TimeSession{}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("task_id = ?", taskID).
		Order("started_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByTaskIDs(spaceID string, taskIDs []string) (list []dbmodels.TimeSession, err error) {
	list = []dbmodels.TimeSession{}
	if len(taskIDs) == 0 {
		return list, nil
	}
	err = i.db.
		Where("space_id = ?", spaceID).
		Where("task_id IN ?", taskIDs).
		Order("started_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
