package recomputeworker

import (
	"context"
	"time"

	"work-tracker-backend/config"
	"work-tracker-backend/db"
	taskhandler "work-tracker-backend/lib/task"
	taskstore "work-tracker-backend/lib/task/store"
	baseworker "work-tracker-backend/lib/utils/base-worker"
	"work-tracker-backend/lib/utils/helpers"
	"work-tracker-backend/models"
)

// Фоновая сверка итогов: заново выводит время и стоимость недавно
// менявшихся задач из полного набора сессий. Чинит итоги, если процесс
// упал между закрытием сессии и пересчетом.

const recomputeBatchLimit = 500

type worker struct {
	baseworker.BaseImpl
	taskStore taskstore.Provider
	interval  time.Duration
}

func StartWorker(ctx context.Context) {
	firstDelay := time.Duration(config.Conf.Workers.RecomputeFirstDelayInSec) * time.Second
	interval := time.Duration(config.Conf.Workers.RecomputeIntervalInSec) * time.Second
	w := worker{
		BaseImpl:  *baseworker.NewInstance("RecomputeWorker", firstDelay, interval),
		taskStore: taskstore.NewInstance(db.DB),
		interval:  interval,
	}
	go w.Run(ctx, w.doJob)
}

func (w worker) doJob(ctx context.Context) {
	logger := w.GetLogger()
	// берем запас в два интервала, чтобы не пропустить задачи,
	// менявшиеся во время прошлого прогона
	since := time.Now().Add(-2 * w.interval)
	list, err := w.taskStore.ListUpdatedSince(since, recomputeBatchLimit)
	if err != nil {
		logger.WithError(err).Error("ошибка получения задач для сверки итогов")
		return
	}
	for _, task := range list {
		if helpers.IsContextDone(ctx) {
			return
		}
		taskLogger := logger.WithField("task_id", task.ID)
		err = taskhandler.Instance.Recompute(task.SpaceID, task.ID)
		if err != nil {
			if models.IsErrorKind(err, models.ErrKindDependencyMissing) {
				taskLogger.WithError(err).Warn("сверка: стоимость не пересчитана")
				continue
			}
			taskLogger.WithError(err).Error("ошибка сверки итогов задачи")
		}
	}
}
