package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "work-tracker-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.SpaceUser{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SpaceUser")
	}
	if err := DB.AutoMigrate(&dbmodels.Company{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Company")
	}
	if err := DB.AutoMigrate(&dbmodels.Task{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Task")
	}
	if err := DB.AutoMigrate(&dbmodels.TimeSession{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TimeSession")
	}
	if err := DB.AutoMigrate(&dbmodels.ExtensionRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ExtensionRequest")
	}
	// атомарность проверки "не более одной активной сессии на пару задача+пользователь"
	// обеспечивает БД, а не код: вставка второй активной сессии упадет по индексу
	err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_sessions_one_active
		ON time_sessions (task_id, user_id) WHERE status = 'ACTIVE'`).Error
	if err != nil {
		return errors.Wrap(err, "ошибка создания индекса активных сессий")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
