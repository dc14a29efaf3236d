package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MalithGihan/protocol-extract/pkg/types"
)

const Sheet = "Proprietarios"

// XLSX returns a workbook with the same columns as CSV.
func XLSX(records []types.OwnerRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return nil, err
	}

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
		if err := f.SetCellValue(Sheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}
	for i, r := range records {
		if err := writeRow(f, i+2, r); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(Sheet, "A", "A", 40); err != nil {
		return nil, fmt.Errorf("xlsx layout: %w", err)
	}
	if err := f.SetColWidth(Sheet, "B", "B", 16); err != nil {
		return nil, fmt.Errorf("xlsx layout: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, r types.OwnerRecord) error {
	name, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(Sheet, name, r.OwnerName); err != nil {
		return err
	}
	if r.Phone == "" {
		return nil
	}
	phone, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return err
	}
	// string cell keeps leading zeros and avoids scientific notation
	return f.SetCellStr(Sheet, phone, r.Phone)
}
