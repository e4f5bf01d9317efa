// =============================================================================
// File Converter - Validation Module
// =============================================================================
//
// This module holds the shape checks shared by the readers and writers:
//   - Table headers must be non-empty and unique
//   - Records written to a table must be flat (scalar or null fields only)
//   - XML element names must follow the XML Name production
//
// Checks return typed errors from internal/errors so the caller can report
// them without further wrapping.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
)

// =============================================================================
// TABLE CHECKS
// =============================================================================

// ValidateHeader checks a table header row.
//
// RULES:
//   - At least one column
//   - No empty column names
//   - No duplicate column names (records are keyed by name)
func ValidateHeader(header []string) error {
	if len(header) == 0 {
		return apperrors.NewParseError("header row has no columns", nil)
	}

	seen := make(map[string]int, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return apperrors.NewParseError(fmt.Sprintf("header column %d is empty", i+1), nil)
		}
		if first, ok := seen[name]; ok {
			return apperrors.NewParseError(
				fmt.Sprintf("header column %d duplicates column %d (%q)", i+1, first+1, name), nil)
		}
		seen[name] = i
	}

	return nil
}

// ValidateFlat checks that every field of a record is a scalar or null.
// index is the zero-based position of the record, used in the message.
func ValidateFlat(obj *types.Object, index int) error {
	for _, f := range obj.Fields {
		if err := checkFlat(f.Name, f.Value, index); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColumns is ValidateFlat restricted to the named columns. Fields
// outside columns are not inspected.
func ValidateColumns(obj *types.Object, index int, columns []string) error {
	for _, name := range columns {
		value, ok := obj.Get(name)
		if !ok {
			continue
		}
		if err := checkFlat(name, value, index); err != nil {
			return err
		}
	}
	return nil
}

func checkFlat(name string, value types.Value, index int) error {
	switch value.(type) {
	case types.Scalar, types.Null:
		return nil
	case types.Array, *types.Object:
		return apperrors.NewUnsupportedShapeError(
			fmt.Sprintf("record %d field %q holds a nested %s", index+1, name, types.Kind(value)))
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unknown value variant %T", value))
	}
}

// =============================================================================
// XML NAMES
// =============================================================================

// IsXMLName reports whether name can be used as an element name.
// Colons are rejected so names never introduce a namespace prefix.
func IsXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isNameStart(r) {
				return false
			}
			continue
		}
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

// SanitizeXMLName turns an arbitrary field name into a valid element name.
// Invalid characters become '_', and a name that cannot start an element is
// prefixed with '_'.
func SanitizeXMLName(name string) string {
	if IsXMLName(name) {
		return name
	}
	if name == "" {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(name) + 1)
	first, _ := utf8.DecodeRuneInString(name)
	if !isNameStart(first) {
		b.WriteByte('_')
	}
	for _, r := range name {
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == '.' ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
