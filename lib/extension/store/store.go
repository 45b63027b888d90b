package extensionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	extensionapimodels "work-tracker-backend/models/api/extension"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ExtensionRequest) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.ExtensionRequest, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	List(spaceID string, filter extensionapimodels.ExtensionFilter) (list []dbmodels.ExtensionRequest, err error)
	ListCount(spaceID string, filter extensionapimodels.ExtensionFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ExtensionRequest) (id string, err error) {
	err = i.db.
		Omit("Task").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.ExtensionRequest, error) {
	rec := dbmodels.ExtensionRequest{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Task").
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
		Model(&dbmodels.ExtensionRequest{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) listQuery(spaceID string, filter extensionapimodels.ExtensionFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.ExtensionRequest{}).
		Where("space_id = ?", spaceID)
	if filter.TaskID != "" {
		tx = tx.Where("task_id = ?", filter.TaskID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	return tx
}

func (i impl) List(spaceID string, filter extensionapimodels.ExtensionFilter) (list []dbmodels.ExtensionRequest, err error) {
	list = []dbmodels.ExtensionRequest{}
	page, limit := filter.GetPage()
	err = i.listQuery(spaceID, filter).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Task").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter extensionapimodels.ExtensionFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
