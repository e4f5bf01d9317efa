// =============================================================================
// File Converter - JSON Codec
// =============================================================================
//
// This module converts JSON text to and from the canonical Value tree.
//
// READING:
//   gjson walks the document in source order, so object key order and array
//   order survive. Numbers and booleans keep their literal text as Scalars;
//   strings are unescaped. Duplicate keys keep the first position and the
//   last value.
//
// WRITING:
//   The tree is rendered as compact JSON and then pretty-printed. Every
//   Scalar is written as a JSON string, Null as null. A Table is written as
//   an array of objects in header order.
//
// =============================================================================

package jsoncodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
)

// =============================================================================
// DECODING
// =============================================================================

// Decode parses JSON text into a Value tree.
func Decode(r io.Reader) (types.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewIOError("failed to read JSON", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewParseError("input is empty or contains only whitespace", nil)
	}
	if !utf8.Valid(data) {
		return nil, apperrors.NewParseError("input is not valid UTF-8", nil)
	}
	if !gjson.ValidBytes(data) {
		return nil, apperrors.NewParseError("invalid JSON syntax", nil)
	}

	return fromResult(gjson.ParseBytes(data)), nil
}

// fromResult converts a gjson result into a Value.
func fromResult(res gjson.Result) types.Value {
	switch {
	case res.IsObject():
		obj := types.NewObject()
		res.ForEach(func(key, value gjson.Result) bool {
			obj.Set(key.String(), fromResult(value))
			return true
		})
		return obj
	case res.IsArray():
		arr := types.Array{}
		res.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, fromResult(value))
			return true
		})
		return arr
	}

	switch res.Type {
	case gjson.String:
		return types.Scalar(res.Str)
	case gjson.Number, gjson.True, gjson.False:
		return types.Scalar(res.Raw)
	default:
		return types.Null{}
	}
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders a document as pretty-printed JSON.
func Encode(doc types.Document, settings config.JSONSettings) ([]byte, error) {
	var buf bytes.Buffer

	switch d := doc.(type) {
	case *types.Table:
		if err := writeValue(&buf, d.ToValue()); err != nil {
			return nil, err
		}
	case types.Value:
		if err := writeValue(&buf, d); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewInternalError(fmt.Sprintf("unknown document type %T", doc))
	}

	width := 80
	if settings.Width != nil {
		width = *settings.Width
	}

	return pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:    width,
		Indent:   settings.Indent,
		SortKeys: false,
	}), nil
}

// writeValue appends the compact JSON form of v.
func writeValue(buf *bytes.Buffer, v types.Value) error {
	switch val := v.(type) {
	case types.Null:
		buf.WriteString("null")
	case types.Scalar:
		writeString(buf, string(val))
	case types.Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *types.Object:
		buf.WriteByte('{')
		for i, f := range val.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, f.Name)
			buf.WriteByte(':')
			if err := writeValue(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unknown value variant %T", v))
	}
	return nil
}

// writeString appends s as a quoted JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var quoted bytes.Buffer
	enc := json.NewEncoder(&quoted)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(quoted.Bytes(), []byte("\n")))
}
