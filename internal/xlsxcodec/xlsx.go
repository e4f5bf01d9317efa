// =============================================================================
// File Converter - XLSX Codec
// =============================================================================
//
// This module reads a worksheet into a Table and writes a Table to a new
// workbook. It follows the same table rules as the CSV codec:
//   - Row 1 is the header (non-empty, unique names)
//   - Every following non-empty row maps header[i] -> cell[i]
//   - A workbook without any row is an EmptySourceError
//
// SPREADSHEET DIFFERENCES:
//   - Trailing empty cells are not stored in XLSX, so a row shorter than the
//     header is blank-filled; a row with values beyond the header is a
//     ParseError
//   - Fully empty rows are skipped
//   - All cells are written as text so literal values are preserved
//
// =============================================================================

package xlsxcodec

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
	"github.com/ginjaninja78/file-converter/internal/validation"
)

// =============================================================================
// DECODING
// =============================================================================

// Decode reads the configured sheet (or the first sheet) into a Table.
func Decode(r io.Reader, settings config.XLSXSettings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParseError("failed to open workbook", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f, settings.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	rows = slices.DeleteFunc(rows, isRowEmpty)
	if len(rows) == 0 {
		return nil, apperrors.NewEmptySourceError(fmt.Sprintf("sheet %q is empty", sheet))
	}

	header := rows[0]
	if err := validation.ValidateHeader(header); err != nil {
		return nil, err
	}

	table := &types.Table{Header: header}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, apperrors.NewParseError(
				fmt.Sprintf("sheet %q data row %d has %d cells, header has %d", sheet, i+1, len(row), len(header)), nil)
		}

		record := make(types.FlatRecord, len(header))
		for j, name := range header {
			if j < len(row) {
				record[name] = row[j]
			} else {
				record[name] = ""
			}
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// selectSheet returns the named sheet when the workbook has it, otherwise
// the first sheet.
func selectSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", apperrors.NewEmptySourceError("workbook has no sheets")
	}
	if name != "" && slices.Contains(sheets, name) {
		return name, nil
	}
	return sheets[0], nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes the table to a single-sheet workbook and returns its bytes.
func Encode(table *types.Table, settings config.XLSXSettings) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if settings.Sheet != "" && settings.Sheet != sheet {
		if err := f.SetSheetName(sheet, settings.Sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet %q: %w", settings.Sheet, err)
		}
		sheet = settings.Sheet
	}

	if len(table.Header) > 0 {
		if err := writeRow(f, sheet, 1, table.Header); err != nil {
			return nil, err
		}
		for i, row := range table.Rows() {
			if err := writeRow(f, sheet, i+2, row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow stores values as text cells starting at column A of rowNum.
func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}

	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
