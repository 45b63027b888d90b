package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	reportapimodels "work-tracker-backend/models/api/report"
)

type Provider interface {
	ExportGeneral(report reportapimodels.GeneralReport) (*bytes.Buffer, error)
	ExportByCompany(report reportapimodels.CompanyReport) (*bytes.Buffer, error)
	ExportByUser(report reportapimodels.UserReport) (*bytes.Buffer, error)
	ExportTime(report reportapimodels.TimeReport) (*bytes.Buffer, error)
	ExportCost(report reportapimodels.CostReport) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var taskHeaders = []string{"Задача", "Компания", "Статус", "Минуты", "Стоимость"}

func (i impl) ExportGeneral(report reportapimodels.GeneralReport) (*bytes.Buffer, error) {
	return exportSheet("Сводный отчет", func(f *excelize.File, sheet string) error {
		row := 0
		row, err := writeHeader(f, sheet, row, []string{"Показатель", "Значение"})
		if err != nil {
			return err
		}
		row = writeKeyValue(f, sheet, row, "Всего задач", report.TotalTasks)
		row = writeKeyValue(f, sheet, row, "Всего минут", report.TotalTimeMin)
		row = writeKeyValue(f, sheet, row, "Всего стоимость", report.TotalCost)
		for status, count := range report.CountsByStatus {
			row = writeKeyValue(f, sheet, row, fmt.Sprintf("Задач в статусе %v", status.ToHuman()), count)
		}
		for name, minutes := range report.TimeByCompany {
			row = writeKeyValue(f, sheet, row, fmt.Sprintf("Минут по компании %v", name), minutes)
		}
		for name, minutes := range report.TimeByUser {
			row = writeKeyValue(f, sheet, row, fmt.Sprintf("Минут по сотруднику %v", name), minutes)
		}
		return nil
	})
}

func (i impl) ExportByCompany(report reportapimodels.CompanyReport) (*bytes.Buffer, error) {
	return exportSheet("По компаниям", func(f *excelize.File, sheet string) error {
		row := 0
		row, err := writeHeader(f, sheet, row, []string{"Компания", "Задач", "Минуты", "Стоимость"})
		if err != nil {
			return err
		}
		for _, item := range report.Companies {
			row++
			values := []interface{}{item.CompanyName, item.TaskCount, item.TotalTimeMin, item.TotalCost}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i impl) ExportByUser(report reportapimodels.UserReport) (*bytes.Buffer, error) {
	return exportSheet("По сотрудникам", func(f *excelize.File, sheet string) error {
		row := 0
		row, err := writeHeader(f, sheet, row, []string{"Сотрудник", "Задач", "Минуты", "Продуктивность"})
		if err != nil {
			return err
		}
		for _, item := range report.Users {
			row++
			values := []interface{}{item.UserName, item.TaskCount, item.TotalTimeMin, item.ProductivityScore}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (i impl) ExportTime(report reportapimodels.TimeReport) (*bytes.Buffer, error) {
	return exportSheet("По времени", func(f *excelize.File, sheet string) error {
		row := 0
		row, err := writeHeader(f, sheet, row, []string{"День", "Минуты"})
		if err != nil {
			return err
		}
		for _, day := range sortedKeys(report.DailyBreakdown) {
			row = writeKeyValue(f, sheet, row, day, report.DailyBreakdown[day])
		}
		row = writeKeyValue(f, sheet, row, "Среднее минут на задачу", report.AvgTimePerTaskMin)
		row, err = writeHeader(f, sheet, row, taskHeaders)
		if err != nil {
			return err
		}
		return writeTaskBriefs(f, sheet, row, report.TopTasks)
	})
}

func (i impl) ExportCost(report reportapimodels.CostReport) (*bytes.Buffer, error) {
	return exportSheet("По стоимости", func(f *excelize.File, sheet string) error {
		row := 0
		row, err := writeHeader(f, sheet, row, []string{"Группа", "Стоимость"})
		if err != nil {
			return err
		}
		row = writeKeyValue(f, sheet, row, "Итого", report.TotalCost)
		for _, name := range sortedKeys(report.CostByCompany) {
			row = writeKeyValue(f, sheet, row, name, report.CostByCompany[name])
		}
		for _, month := range sortedKeys(report.CostByMonth) {
			row = writeKeyValue(f, sheet, row, month, report.CostByMonth[month])
		}
		row, err = writeHeader(f, sheet, row, taskHeaders)
		if err != nil {
			return err
		}
		return writeTaskBriefs(f, sheet, row, report.TopTasks)
	})
}

func exportSheet(name string, fill func(f *excelize.File, sheet string) error) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	if err := fill(f, sheet); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
	}
	f.SetSheetName(sheet, name)
	return f.WriteToBuffer()
}

func writeTaskBriefs(f *excelize.File, sheet string, row int, list []reportapimodels.TaskBrief) error {
	for _, item := range list {
		row++
		values := []interface{}{item.Title, item.CompanyName, item.Status.ToHuman(), item.TimeSpentMin, item.Cost}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}
