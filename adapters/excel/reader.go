package excel

import (
	"github.com/xuri/excelize/v2"

	"dqsuggest/adapters/memory"
	"dqsuggest/internal/errors"
)

// ReadWorkbook loads one sheet of an xlsx workbook into an in-memory
// dataset. The first row provides column names; empty cells become nulls.
// An empty sheet name selects the workbook's first sheet.
func ReadWorkbook(path, sheet string) (*memory.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open workbook %s", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput("sheet has no header row")
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for _, name := range header {
		if name != "" {
			columns = append(columns, name)
		}
	}
	if len(columns) == 0 {
		return nil, errors.InvalidInput("header row has no column names")
	}

	return memory.FromRecords(columns, rows[1:]), nil
}
