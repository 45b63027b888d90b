package companyhandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"work-tracker-backend/db"
	companystore "work-tracker-backend/lib/company/store"
	initchecker "work-tracker-backend/lib/utils/init-checker"
	"work-tracker-backend/models"
	companyapimodels "work-tracker-backend/models/api/company"
	dbmodels "work-tracker-backend/models/db"
)

type Provider interface {
	Create(spaceID string, data companyapimodels.CompanyData) (id string, err error)
	Update(spaceID, id string, data companyapimodels.CompanyData) error
	GetByID(spaceID, id string) (companyapimodels.CompanyView, error)
	List(spaceID string, filter companyapimodels.CompanyFilter) (list []companyapimodels.CompanyView, rowCount int64, err error)
	Deactivate(spaceID, id string) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store: companystore.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store companystore.Provider
}

func (i impl) getLogger(spaceID, companyID string) *log.Entry {
	return log.
		WithField("space_id", spaceID).
		WithField("company_id", companyID)
}

func (i impl) Create(spaceID string, data companyapimodels.CompanyData) (id string, err error) {
	rec := dbmodels.Company{
		BaseSpaceModel: dbmodels.BaseSpaceModel{
			SpaceID: spaceID,
		},
		Name:        data.Name,
		CostPerHour: data.CostPerHour,
		Currency:    data.Currency,
		IsActive:    true,
	}
	if err = rec.Validate(); err != nil {
		return "", err
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", errors.Wrap(err, "ошибка создания компании")
	}
	i.getLogger(spaceID, id).Info("создана компания")
	return id, nil
}

func (i impl) Update(spaceID, id string, data companyapimodels.CompanyData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения компании")
	}
	if rec == nil {
		return models.NewNotFoundError("компания не найдена")
	}
	updMap := map[string]interface{}{
		"name":          data.Name,
		"cost_per_hour": data.CostPerHour,
		"currency":      data.Currency,
	}
	err = i.store.Update(spaceID, id, updMap)
	if err != nil {
		return errors.Wrap(err, "ошибка обновления компании")
	}
	// ставка применяется только к будущим пересчетам,
	// исторические значения стоимости не трогаем
	i.getLogger(spaceID, id).Info("обновлена компания")
	return nil
}

func (i impl) GetByID(spaceID, id string) (companyapimodels.CompanyView, error) {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return companyapimodels.CompanyView{}, errors.Wrap(err, "ошибка получения компании")
	}
	if rec == nil {
		return companyapimodels.CompanyView{}, models.NewNotFoundError("компания не найдена")
	}
	return companyapimodels.CompanyConvert(*rec), nil
}

func (i impl) List(spaceID string, filter companyapimodels.CompanyFilter) ([]companyapimodels.CompanyView, int64, error) {
	rowCount, err := i.store.ListCount(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка компаний")
	}
	list, err := i.store.List(spaceID, filter)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка компаний")
	}
	result := make([]companyapimodels.CompanyView, 0, len(list))
	for _, rec := range list {
		result = append(result, companyapimodels.CompanyConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Deactivate(spaceID, id string) error {
	rec, err := i.store.GetByID(spaceID, id)
	if err != nil {
		return errors.Wrap(err, "ошибка получения компании")
	}
	if rec == nil {
		return models.NewNotFoundError("компания не найдена")
	}
	err = i.store.Update(spaceID, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return errors.Wrap(err, "ошибка деактивации компании")
	}
	i.getLogger(spaceID, id).Info("компания деактивирована")
	return nil
}
