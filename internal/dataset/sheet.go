package dataset

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// PropertiesSheet is the sheet name snapshot workbooks use for listing
// rows.
const PropertiesSheet = "Properties"

// ReadSheet reads all rows of the named sheet from an xlsx workbook,
// falling back to the workbook's first sheet when the name is absent.
func ReadSheet(path, sheetName string) ([][]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("workbook not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := sheetName
	if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		name = f.GetSheetName(0)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return rows, nil
}
