package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"work-tracker-backend/controllers"
	extensionhandler "work-tracker-backend/lib/extension"
	"work-tracker-backend/middleware"
	apimodels "work-tracker-backend/models/api"
	extensionapimodels "work-tracker-backend/models/api/extension"
)

type extensionApiController struct {
	controllers.BaseAPIController
}

func InitExtensionApiRouters(app *fiber.App) {
	controller := extensionApiController{}
	app.Route("extensions", func(router fiber.Router) {
		router.Post("task/:id", controller.Create)
		router.Put("list", controller.List)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Put("approve", middleware.SpaceAdminRequired(), controller.Approve)
			idRoute.Put("reject", middleware.SpaceAdminRequired(), controller.Reject)
		})
	})
}

// @Summary Запросить перенос срока задачи
// @Tags Переносы сроков
// @Description Создать заявку на перенос срока задачи
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"task id"
// @Param	body				body		extensionapimodels.ExtensionRequestData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/extensions/task/{id} [post]
func (c *extensionApiController) Create(ctx *fiber.Ctx) error {
	taskID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload extensionapimodels.ExtensionRequestData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := extensionhandler.Instance.Create(spaceID, taskID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания заявки на перенос срока")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список заявок на перенос сроков
// @Tags Переносы сроков
// @Description Список заявок с фильтром по задаче и статусу
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		extensionapimodels.ExtensionFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]extensionapimodels.ExtensionView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/extensions/list [put]
func (c *extensionApiController) List(ctx *fiber.Ctx) error {
	var payload extensionapimodels.ExtensionFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := extensionhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка заявок на перенос срока")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Согласовать перенос срока
// @Tags Переносы сроков
// @Description Согласовать заявку, задаче устанавливается новый срок
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"extension request id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/extensions/{id}/approve [put]
func (c *extensionApiController) Approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = extensionhandler.Instance.Approve(spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка согласования переноса срока")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Отклонить перенос срока
// @Tags Переносы сроков
// @Description Отклонить заявку, срок задачи не меняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"extension request id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/extensions/{id}/reject [put]
func (c *extensionApiController) Reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	userID := middleware.GetUserID(ctx)
	err = extensionhandler.Instance.Reject(spaceID, id, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения переноса срока")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
