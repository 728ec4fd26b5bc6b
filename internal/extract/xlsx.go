package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractXLSX renders every sheet as tab-delimited text. Trailing
// whitespace is stripped per line, blank lines dropped, and each
// non-empty sheet is prefixed with a sheet header. Sheets appear in
// workbook order; empty sheets contribute nothing.
func extractXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx failed: %w", err)
	}
	defer f.Close()

	var full strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return "", fmt.Errorf("read sheet %q failed: %w", sheetName, err)
		}

		var lines []string
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), " \t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}

		full.WriteString(fmt.Sprintf("--- Sheet: %s ---\n\n%s\n\n", sheetName, strings.Join(lines, "\n")))
	}

	return strings.TrimSpace(full.String()), nil
}
