package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"work-tracker-backend/middleware"
	"work-tracker-backend/models"
	apimodels "work-tracker-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан параметр (%v)", key)
	}
	if key == "id" {
		if _, err := uuid.Parse(id); err != nil {
			return "", errors.New("некорректный идентификатор записи")
		}
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("space_id", middleware.GetUserSpace(ctx)).
		WithField("user_id", middleware.GetUserID(ctx)).
		WithField("path", ctx.Path())
	return logger
}

// SendError переводит тип ошибки движка в http статус.
// Для неизвестных ошибок пользователю уходит hMsg, детали остаются в логе.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	kind, ok := models.GetErrorKind(err)
	if ok {
		switch kind {
		case models.ErrKindValidation:
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		case models.ErrKindPermission:
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
		case models.ErrKindNotFound:
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
		case models.ErrKindInvalidState, models.ErrKindConflict:
			return ctx.Status(fiber.StatusConflict).JSON(apimodels.NewError(err.Error()))
		}
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}
