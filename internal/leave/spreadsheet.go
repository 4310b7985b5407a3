package leave

import (
	"fmt"

	"qingjia/pkg/types"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetHeader is the first row of every export: student ID, program,
// name, leave date, reason.
var SpreadsheetHeader = []any{"学号", "专业", "姓名", "请假日期", "请假原因"}

// BuildSpreadsheet renders records as an xlsx workbook, one row per record in
// the order given. programName fills the second column of every row.
func BuildSpreadsheet(records []*types.LeaveRecord, sheetTitle, programName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheetTitle != "" && sheetTitle != sheet {
		if err := f.SetSheetName(sheet, sheetTitle); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
		sheet = sheetTitle
	}

	if err := setRow(f, sheet, 1, SpreadsheetHeader); err != nil {
		return nil, err
	}

	for i, record := range records {
		row := []any{
			record.StudentID,
			programName,
			record.Name,
			record.FormattedLeaveDate(),
			record.Reason,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}

	return nil
}
