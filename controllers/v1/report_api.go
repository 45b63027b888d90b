package apiv1

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"work-tracker-backend/config"
	"work-tracker-backend/controllers"
	pdfexport "work-tracker-backend/lib/export/pdf"
	xlsexport "work-tracker-backend/lib/export/xls"
	reporthandler "work-tracker-backend/lib/report"
	reportarchive "work-tracker-backend/lib/report-archive"
	"work-tracker-backend/middleware"
	"work-tracker-backend/models"
	apimodels "work-tracker-backend/models/api"
	reportapimodels "work-tracker-backend/models/api/report"
)

type reportApiController struct {
	controllers.BaseAPIController
}

func InitReportApiRouters(app *fiber.App) {
	controller := reportApiController{}
	app.Route("reports", func(router fiber.Router) {
		router.Put("", controller.Build)
		router.Put("export/xlsx", controller.ExportXlsx)
		router.Put("export/pdf", controller.ExportPdf)
	})
}

// @Summary Построить отчет
// @Tags Отчеты
// @Description Построить отчет выбранного вида по текущим данным
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		reportapimodels.ReportRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/reports [put]
func (c *reportApiController) Build(ctx *fiber.Ctx) error {
	var payload reportapimodels.ReportRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	data, err := c.buildReport(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка построения отчета")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Выгрузить отчет в Excel
// @Tags Отчеты
// @Description Построить отчет выбранного вида и выгрузить в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		reportapimodels.ReportRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/reports/export/xlsx [put]
func (c *reportApiController) ExportXlsx(ctx *fiber.Ctx) error {
	var payload reportapimodels.ReportRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	spaceID := middleware.GetUserSpace(ctx)
	buf, err := c.buildXlsx(spaceID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки отчета в Excel")
	}
	c.archive(spaceID, payload.Kind, "xlsx", buf.Bytes())
	fileName := fmt.Sprintf("report-%v-%v.xlsx", payload.Kind, time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(buf)
}

// @Summary Выгрузить отчет по стоимости в PDF
// @Tags Отчеты
// @Description Печатная сводка по стоимости, доступна только для отчета вида cost
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		reportapimodels.ReportRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/space/reports/export/pdf [put]
func (c *reportApiController) ExportPdf(ctx *fiber.Ctx) error {
	var payload reportapimodels.ReportRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Kind != models.ReportKindCost {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("в pdf выгружается только отчет по стоимости"))
	}
	spaceID := middleware.GetUserSpace(ctx)
	report, err := reporthandler.Instance.Cost(spaceID, payload.Filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка построения отчета по стоимости")
	}
	pdfFile, err := pdfexport.Instance.ExportCost(report)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки отчета в PDF")
	}
	c.archive(spaceID, payload.Kind, "pdf", pdfFile)
	fileName := fmt.Sprintf("report-cost-%v.pdf", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(bytes.NewReader(pdfFile))
}

func (c *reportApiController) buildReport(spaceID string, payload reportapimodels.ReportRequest) (interface{}, error) {
	switch payload.Kind {
	case models.ReportKindGeneral:
		return reporthandler.Instance.General(spaceID, payload.Filter)
	case models.ReportKindByCompany:
		return reporthandler.Instance.ByCompany(spaceID, payload.Filter)
	case models.ReportKindByUser:
		return reporthandler.Instance.ByUser(spaceID, payload.Filter)
	case models.ReportKindTime:
		return reporthandler.Instance.Time(spaceID, payload.Filter)
	case models.ReportKindCost:
		return reporthandler.Instance.Cost(spaceID, payload.Filter)
	}
	return nil, models.NewValidationError("неизвестный вид отчета: %v", payload.Kind)
}

func (c *reportApiController) buildXlsx(spaceID string, payload reportapimodels.ReportRequest) (*bytes.Buffer, error) {
	switch payload.Kind {
	case models.ReportKindGeneral:
		report, err := reporthandler.Instance.General(spaceID, payload.Filter)
		if err != nil {
			return nil, err
		}
		return xlsexport.Instance.ExportGeneral(report)
	case models.ReportKindByCompany:
		report, err := reporthandler.Instance.ByCompany(spaceID, payload.Filter)
		if err != nil {
			return nil, err
		}
		return xlsexport.Instance.ExportByCompany(report)
	case models.ReportKindByUser:
		report, err := reporthandler.Instance.ByUser(spaceID, payload.Filter)
		if err != nil {
			return nil, err
		}
		return xlsexport.Instance.ExportByUser(report)
	case models.ReportKindTime:
		report, err := reporthandler.Instance.Time(spaceID, payload.Filter)
		if err != nil {
			return nil, err
		}
		return xlsexport.Instance.ExportTime(report)
	case models.ReportKindCost:
		report, err := reporthandler.Instance.Cost(spaceID, payload.Filter)
		if err != nil {
			return nil, err
		}
		return xlsexport.Instance.ExportCost(report)
	}
	return nil, models.NewValidationError("неизвестный вид отчета: %v", payload.Kind)
}

// копия выгрузки уходит в s3 в фоне, ошибка архивации не мешает скачиванию
func (c *reportApiController) archive(spaceID string, kind models.ReportKind, ext string, body []byte) {
	if config.Conf.S3.Enabled == nil || !*config.Conf.S3.Enabled || reportarchive.Instance == nil {
		return
	}
	go func() {
		err := reportarchive.Instance.Store(context.Background(), spaceID, kind, ext, body)
		if err != nil {
			log.
				WithField("space_id", spaceID).
				WithField("report_kind", string(kind)).
				WithError(err).
				Error("ошибка архивации выгрузки отчета")
		}
	}()
}
