package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"work-tracker-backend/controllers"
	companyhandler "work-tracker-backend/lib/company"
	"work-tracker-backend/middleware"
	apimodels "work-tracker-backend/models/api"
	companyapimodels "work-tracker-backend/models/api/company"
)

type companyApiController struct {
	controllers.BaseAPIController
}

func InitCompanyApiRouters(app *fiber.App) {
	controller := companyApiController{}
	app.Route("companies", func(router fiber.Router) {
		router.Post("", middleware.SpaceAdminRequired(), controller.Create)
		router.Put("list", controller.List)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.GetByID)
			idRoute.Put("", middleware.SpaceAdminRequired(), controller.Update)
			idRoute.Delete("", middleware.SpaceAdminRequired(), controller.Deactivate)
		})
	})
}

// @Summary Создать компанию
// @Tags Компании
// @Description Создать компанию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		companyapimodels.CompanyData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/companies [post]
func (c *companyApiController) Create(ctx *fiber.Ctx) error {
	var payload companyapimodels.CompanyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	id, err := companyhandler.Instance.Create(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания компании")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Изменить компанию
// @Tags Компании
// @Description Изменить компанию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"company id"
// @Param	body				body		companyapimodels.CompanyData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/companies/{id} [put]
func (c *companyApiController) Update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload companyapimodels.CompanyData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = companyhandler.Instance.Update(spaceID, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения компании")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Получить компанию
// @Tags Компании
// @Description Получить компанию
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"company id"
// @Success 200 {object} apimodels.Response{data=companyapimodels.CompanyView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/companies/{id} [get]
func (c *companyApiController) GetByID(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	view, err := companyhandler.Instance.GetByID(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения компании")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Список компаний
// @Tags Компании
// @Description Список компаний
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		companyapimodels.CompanyFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]companyapimodels.CompanyView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/companies/list [put]
func (c *companyApiController) List(ctx *fiber.Ctx) error {
	var payload companyapimodels.CompanyFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	list, rowCount, err := companyhandler.Instance.List(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка компаний")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Деактивировать компанию
// @Tags Компании
// @Description Деактивировать компанию, задачи и история остаются
// @Param   Authorization		header		string	true	"Authorization token"
// @Param 	id 					path 		string  true 	"company id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/companies/{id} [delete]
func (c *companyApiController) Deactivate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	err = companyhandler.Instance.Deactivate(spaceID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка деактивации компании")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
