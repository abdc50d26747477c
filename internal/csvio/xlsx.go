package csvio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"buyer-lead-portal/internal/models"
)

const xlsxSheetName = "Buyers"

// GenerateXLSX serializes buyers as a spreadsheet with the same columns
// and human-spelling values as the CSV export.
func GenerateXLSX(buyers []models.Buyer) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for col, name := range ExportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(xlsxSheetName, cell, name); err != nil {
			f.Close()
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	if err := f.SetCellStyle(xlsxSheetName, "A1", lastHeader, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for rowIdx, b := range buyers {
		for col, value := range exportRecord(b) {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(xlsxSheetName, cell, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
