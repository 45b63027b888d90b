package companystore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	companyapimodels "work-tracker-backend/models/api/company"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Company) (id string, err error)
	GetByID(spaceID, id string) (rec *dbmodels.Company, err error)
	Update(spaceID, id string, updMap map[string]interface{}) error
	List(spaceID string, filter companyapimodels.CompanyFilter) (list []dbmodels.Company, err error)
	ListCount(spaceID string, filter companyapimodels.CompanyFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Company) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(spaceID, id string) (*dbmodels.Company, error) {
	rec := dbmodels.Company{}
	err := i.db.
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
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
		Model(&dbmodels.Company{}).
		Where("id = ?", id).
		Where("space_id = ?", spaceID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) listQuery(spaceID string, filter companyapimodels.CompanyFilter) *gorm.DB {
	tx := i.db.
		Model(&dbmodels.Company{}).
		Where("space_id = ?", spaceID)
	if filter.Name != "" {
		tx = tx.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.OnlyActive {
		tx = tx.Where("is_active = true")
	}
	return tx
}

func (i impl) List(spaceID string, filter companyapimodels.CompanyFilter) (list []dbmodels.Company, err error) {
	list = []dbmodels.Company{}
	page, limit := filter.GetPage()
	err = i.listQuery(spaceID, filter).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(spaceID string, filter companyapimodels.CompanyFilter) (count int64, err error) {
	err = i.listQuery(spaceID, filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
