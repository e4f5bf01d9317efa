// =============================================================================
// File Converter - Shape Transformations
// =============================================================================
//
// This module reshapes canonical documents so they fit a tabular target.
//
// FLATTENING (array of flat objects -> Table):
//   [ {"name": "Alice", "age": "30"},        name,age
//     {"name": "Bob", "city": "Paris"} ]  ->  Alice,30
//                                            Bob,
//
//   - The first record's field names, in order, become the header
//   - Later records are looked up by header name; a missing field is an
//     empty cell
//   - Fields absent from the first record are dropped (first record defines
//     the schema; heterogeneous arrays lose data)
//   - Null fields become empty cells
//   - Nested arrays or objects under a header column are an
//     UnsupportedShapeError; dropped fields are never inspected
//
// RECORD-LIST LIFTING (XML sources only):
//   XML always yields an object for the document element, so a record list
//   such as <root><row>..</row><row>..</row></root> reads as
//   {"row": [{..}, {..}]}. An object holding exactly one field whose value
//   is an object or an array is unwrapped to that list before flattening.
//   Empty elements read as "", so inside a list they become empty records
//   and an empty document element becomes an empty list.
//
// =============================================================================

package converter

import (
	"fmt"

	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
	"github.com/ginjaninja78/file-converter/internal/validation"
)

// =============================================================================
// FLATTENING
// =============================================================================

// Flatten maps a document onto a Table. A Table passes through unchanged
// and an empty array gives an empty Table.
func (c *Converter) Flatten(doc types.Document) (*types.Table, error) {
	switch d := doc.(type) {
	case *types.Table:
		return d, nil
	case types.Array:
		table, dropped, err := flattenArray(d)
		if err != nil {
			return nil, err
		}
		if len(dropped) > 0 {
			c.logger.Debug("Dropped fields missing from the first record", "fields", dropped)
		}
		return table, nil
	case types.Value:
		return nil, apperrors.NewUnsupportedShapeError(
			fmt.Sprintf("tabular output needs an array of objects, got a %s", types.Kind(d)))
	default:
		return nil, apperrors.NewInternalError(fmt.Sprintf("unknown document type %T", doc))
	}
}

// flattenArray applies the first-record-defines-schema policy. It also
// returns the names of dropped fields, in first-seen order.
func flattenArray(arr types.Array) (*types.Table, []string, error) {
	table := &types.Table{}
	if len(arr) == 0 {
		return table, nil, nil
	}

	var (
		columns map[string]bool
		dropped []string
		seen    = make(map[string]bool)
	)

	for i, elem := range arr {
		obj, ok := elem.(*types.Object)
		if !ok {
			return nil, nil, apperrors.NewUnsupportedShapeError(
				fmt.Sprintf("record %d is a %s, not an object", i+1, types.Kind(elem)))
		}

		if i == 0 {
			if err := validation.ValidateFlat(obj, i); err != nil {
				return nil, nil, err
			}
			table.Header = obj.Keys()
			columns = make(map[string]bool, len(table.Header))
			for _, name := range table.Header {
				columns[name] = true
			}
		} else if err := validation.ValidateColumns(obj, i, table.Header); err != nil {
			return nil, nil, err
		}

		record := make(types.FlatRecord, len(table.Header))
		for _, f := range obj.Fields {
			if !columns[f.Name] {
				if !seen[f.Name] {
					seen[f.Name] = true
					dropped = append(dropped, f.Name)
				}
				continue
			}
			record[f.Name] = cellText(f.Value)
		}
		table.Records = append(table.Records, record)
	}

	return table, dropped, nil
}

// cellText renders a flat value as cell text. Null is an empty cell.
func cellText(v types.Value) string {
	if s, ok := v.(types.Scalar); ok {
		return string(s)
	}
	return ""
}

// =============================================================================
// RECORD-LIST LIFTING
// =============================================================================

// LiftRecordList unwraps a single-field object holding a record list.
// Any other document is returned unchanged.
func LiftRecordList(doc types.Document) (types.Document, error) {
	if isEmptyElement(doc) {
		return types.Array{}, nil
	}

	obj, ok := doc.(*types.Object)
	if !ok || obj.Len() != 1 {
		return doc, nil
	}

	switch v := obj.Fields[0].Value.(type) {
	case types.Array:
		records := make(types.Array, len(v))
		for i, elem := range v {
			if isEmptyElement(elem) {
				elem = types.NewObject()
			}
			records[i] = elem
		}
		return records, nil
	case *types.Object:
		return types.Array{v}, nil
	default:
		return doc, nil
	}
}

// isEmptyElement reports whether doc is what an element without content
// reads as.
func isEmptyElement(doc types.Document) bool {
	s, ok := doc.(types.Scalar)
	return ok && s == ""
}
