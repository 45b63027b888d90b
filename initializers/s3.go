package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"work-tracker-backend/config"
	reportarchive "work-tracker-backend/lib/report-archive"
	s3client "work-tracker-backend/s3"
)

func InitS3() {
	if config.Conf.S3.Enabled == nil || !*config.Conf.S3.Enabled {
		log.Info("Архивация отчетов в S3 отключена")
		return
	}
	minioClient, err := s3client.NewClient()
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	reportarchive.NewInstance(minioClient)
	err = reportarchive.Instance.MakeBucket(context.Background())
	if err != nil {
		log.WithError(err).Error("Ошибка создания бакета для архива отчетов")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
