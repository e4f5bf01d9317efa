// =============================================================================
// File Converter - CSV Codec
// =============================================================================
//
// This module reads CSV text into a Table and writes a Table back to CSV.
//
// READING RULES:
//   - The first record is the header; it must be non-empty and unique
//   - Every following record maps header[i] -> field[i]
//   - A record with a different field count than the header is a ParseError
//   - A file without any record (no header either) is an EmptySourceError
//   - A leading UTF-8 byte order mark is ignored
//
// WRITING:
//   The header row followed by one row per record, in header order.
//   Flattening a tree into a Table happens before this module is called.
//
// =============================================================================

package csvcodec

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
	"github.com/ginjaninja78/file-converter/internal/validation"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// DECODING
// =============================================================================

// Decode parses CSV text into a Table.
func Decode(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	reader, err := newReader(r, settings)
	if err != nil {
		return nil, err
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewEmptySourceError("CSV file is empty")
	}
	if err != nil {
		return nil, parseError(err)
	}

	if err := validation.ValidateHeader(header); err != nil {
		return nil, err
	}

	table := &types.Table{Header: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}

		record := make(types.FlatRecord, len(header))
		for i, name := range header {
			record[name] = row[i]
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

// newReader configures a csv.Reader from the settings.
// FieldsPerRecord is left at 0 so every row must match the header width.
func newReader(r io.Reader, settings config.CSVSettings) (*csv.Reader, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, apperrors.NewInternalError(err.Error())
	}

	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = comma
	reader.LazyQuotes = settings.LazyQuotes
	reader.TrimLeadingSpace = settings.TrimLeadingSpace
	reader.FieldsPerRecord = 0
	reader.ReuseRecord = false

	return reader, nil
}

func parseError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		if errors.Is(perr.Err, csv.ErrFieldCount) {
			return apperrors.NewParseError(
				fmt.Sprintf("line %d: row length does not match the header", perr.StartLine), perr.Err)
		}
		return apperrors.NewParseError(fmt.Sprintf("line %d, column %d", perr.Line, perr.Column), perr.Err)
	}
	return apperrors.NewIOError("failed to read CSV", err)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders a Table as CSV text. A table without header renders as "".
func Encode(table *types.Table, settings config.CSVSettings) ([]byte, error) {
	if len(table.Header) == 0 {
		return []byte{}, nil
	}

	comma, err := settings.Comma()
	if err != nil {
		return nil, apperrors.NewInternalError(err.Error())
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = comma
	writer.UseCRLF = settings.UseCRLF

	lineEnd := "\n"
	if settings.UseCRLF {
		lineEnd = "\r\n"
	}

	rows := append([][]string{table.Header}, table.Rows()...)
	for i, row := range rows {
		// csv.Writer renders a lone empty field as a blank line, which
		// readers skip; quote it so the record survives.
		if len(row) == 1 && row[0] == "" {
			writer.Flush()
			buf.WriteString(`""` + lineEnd)
			continue
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}

	return buf.Bytes(), nil
}
