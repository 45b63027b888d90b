package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	reportapimodels "work-tracker-backend/models/api/report"
)

type Provider interface {
	ExportCost(report reportapimodels.CostReport) ([]byte, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

// GenerateCostReport строит печатную сводку по стоимости.
// Шрифты с кириллицей лежат в static/font/
func (i impl) ExportCost(report reportapimodels.CostReport) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("ExportCost panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 16)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	_, lineHt := pdf.GetFontSize()
	pdf.CellFormat(0, lineHt+2, "Отчет по стоимости", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	_, lineHt = pdf.GetFontSize()
	pdf.CellFormat(0, lineHt+2, fmt.Sprintf("Итого: %.2f", report.TotalCost), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSection(pdf, "По компаниям", report.CostByCompany)
	writeSection(pdf, "По месяцам", report.CostByMonth)

	pdf.SetFont("Arial", "B", 12)
	_, lineHt = pdf.GetFontSize()
	pdf.CellFormat(0, lineHt+2, "Самые дорогие задачи", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	_, lineHt = pdf.GetFontSize()
	for _, item := range report.TopTasks {
		line := fmt.Sprintf("%v (%v) - %.2f", item.Title, item.CompanyName, item.Cost)
		pdf.CellFormat(0, lineHt+2, line, "", 1, "L", false, 0, "")
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, title string, values map[string]float64) {
	pdf.SetFont("Arial", "B", 12)
	_, lineHt := pdf.GetFontSize()
	pdf.CellFormat(0, lineHt+2, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	_, lineHt = pdf.GetFontSize()
	for _, key := range sortedKeys(values) {
		line := fmt.Sprintf("%v: %.2f", key, values[key])
		pdf.CellFormat(0, lineHt+2, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
