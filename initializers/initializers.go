package initializers

import (
	"context"

	"work-tracker-backend/config"
	"work-tracker-backend/fiberlog"
	companyhandler "work-tracker-backend/lib/company"
	extensionhandler "work-tracker-backend/lib/extension"
	pdfexport "work-tracker-backend/lib/export/pdf"
	xlsexport "work-tracker-backend/lib/export/xls"
	reporthandler "work-tracker-backend/lib/report"
	taskhandler "work-tracker-backend/lib/task"
	recomputeworker "work-tracker-backend/lib/task/recompute-worker"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	companyhandler.NewHandler()
	taskhandler.NewHandler()
	reporthandler.NewHandler()
	extensionhandler.NewHandler()
	xlsexport.NewHandler()
	pdfexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача фоновой сверки времени и стоимости задач
	recomputeworker.StartWorker(ctx)
}
