package taskstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	reportapimodels "work-tracker-backend/models/api/report"
	taskapimodels "work-tracker-backend/models/api/task"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Task) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Task, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	List(spaceID string, filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error)
	ListCount(spaceID string, filter taskapimodels.TaskFilter) (count int64, err error)
	ListForReport(spaceID string, filter reportapimodels.ReportFilter) (list []dbmodels.Task, err error)
	ListUpdatedSince(since time.Time, limit int) (list []dbmodels.Task, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (id string, err error) {
	err = i.db.
		Omit("Company").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Preload("Company").
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
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) listQuery(spaceID string, filter taskapimodels.TaskFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("space_id = ?", spaceID).
		Where("is_active = true")
	if filter.CompanyID != "" {
		tx = tx.Where("company_id = ?", filter.CompanyID)
	}
	if filter.UserID != "" {
		tx = tx.Where("? = ANY(assigned_user_ids)", filter.UserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	return tx
}

func (i impl) List(spaceID string, filter taskapimodels.TaskFilter) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	page, limit := filter.GetPage()
	err = i.listQuery(spaceID, filter).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Company").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter taskapimodels.TaskFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListForReport - все задачи под фильтром отчета, без пагинации,
// в стабильном порядке создания
func (i impl) ListForReport(spaceID string, filter reportapimodels.ReportFilter) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	tx := i.db.
		Model(&dbmodels.Task{}).
		Where("space_id = ?", spaceID).
		Where("is_active = true")
	if filter.CompanyID != "" {
		tx = tx.Where("company_id = ?", filter.CompanyID)
	}
	if filter.UserID != "" {
		tx = tx.Where("? = ANY(assigned_user_ids)", filter.UserID)
	}
	if filter.DateFrom != nil {
		tx = tx.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		tx = tx.Where("created_at <= ?", *filter.DateTo)
	}
	err = tx.
		Order("created_at ASC").
		Preload("Company").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListUpdatedSince - кандидаты для фонового пересчета итогов
func (i impl) ListUpdatedSince(since time.Time, limit int) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	err = i.db.
		Model(&dbmodels.Task{}).
		Where("is_active = true").
		Where("updated_at >= ?", since).
		Order("updated_at ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
