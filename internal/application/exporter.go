package application

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	FormatExcel = "excel"
	FormatCSV   = "csv"

	exportSheet     = "Заявки"
	exportTimestamp = "2006-01-02 15:04"
)

var exportHeaders = []string{"ID", "Имя", "Телефон", "Статус", "Комментарий", "Создана"}

// Export renders leads as a spreadsheet and returns the bytes, a file name and its MIME type.
func Export(format string, apps []Application, loc *time.Location) ([]byte, string, string, error) {
	if loc == nil {
		loc = time.UTC
	}
	timestamp := time.Now().In(loc).Format("20060102_150405")

	switch format {
	case "", FormatExcel:
		data, err := exportExcel(apps, loc)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("applications_%s.xlsx", timestamp)
		return data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := exportCSV(apps, loc)
		if err != nil {
			return nil, "", "", err
		}
		filename := fmt.Sprintf("applications_%s.csv", timestamp)
		return data, filename, "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportRow(a Application, loc *time.Location) []interface{} {
	return []interface{}{a.ID, a.Name, a.Phone, a.Status.Label(), a.Comment, a.CreatedAt.In(loc).Format(exportTimestamp)}
}

func exportExcel(apps []Application, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, a := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(a, loc)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "B", 25); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "E", "E", 40); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportCSV(apps []Application, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, a := range apps {
		record := []string{
			strconv.FormatUint(uint64(a.ID), 10),
			a.Name,
			a.Phone,
			a.Status.Label(),
			a.Comment,
			a.CreatedAt.In(loc).Format(exportTimestamp),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
