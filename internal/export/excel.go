package export

import (
	"fmt"
	"os"
	"path/filepath"

	"agenda/internal/models"
	"agenda/internal/schedule"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes billing summaries to XLSX files under a fixed directory.
type ExcelWriter struct {
	dir string
}

func NewExcelWriter(dir string) *ExcelWriter {
	return &ExcelWriter{dir: dir}
}

// WriteBillingSummary renders the summary into an XLSX file and returns its
// path.
func (w *ExcelWriter) WriteBillingSummary(summary *models.BillingSummary) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Faturamento"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Período: %s - %s", summary.FromDay, summary.ToDay))
	_ = f.MergeCell(sheetName, "A1", "E1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"Dia", "Horário", "Cliente", "Serviço", "Valor"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheetName, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheetName, "A3", "E3", headerStyle)

	row := 4
	for _, entry := range summary.Entries {
		appt := entry.Appointment
		clientName, serviceName := "", ""
		if appt.Client != nil {
			clientName = appt.Client.FullName
		}
		if appt.Service != nil {
			serviceName = appt.Service.Name
		}

		values := []interface{}{
			schedule.DayKeyOf(appt.StartAt),
			schedule.ClockOf(appt.StartAt),
			clientName,
			serviceName,
			entry.Price,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Receita total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), summary.TotalRevenue)
	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Atendimentos")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), summary.Count)
	row++
	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Ticket médio")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), summary.AverageTicket)

	_ = f.SetColWidth(sheetName, "A", "B", 14)
	_ = f.SetColWidth(sheetName, "C", "D", 28)
	_ = f.SetColWidth(sheetName, "E", "E", 14)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("faturamento_%s_a_%s.xlsx", summary.FromDay, summary.ToDay)
	path := filepath.Join(w.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export file: %w", err)
	}
	return path, nil
}
