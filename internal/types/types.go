// =============================================================================
// File Converter - Shared Types
// =============================================================================
//
// This package contains the canonical document model every format is
// translated to and from. Types defined here are used by:
//   - csvcodec, jsoncodec, xmlcodec, xlsxcodec
//   - converter
//   - validation
//
// MODEL:
//   Value    : Null | Scalar | Array | *Object (closed set)
//   Table    : header + flat records (CSV / XLSX sources)
//   Document : either a Value or a *Table
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// FORMAT TAGS
// =============================================================================

// Format identifies a serialized file format.
type Format string

const (
	FormatJSON Format = "JSON"
	FormatXML  Format = "XML"
	FormatCSV  Format = "CSV"
	FormatXLSX Format = "XLSX"
)

// Formats returns every known format in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatXML, FormatCSV, FormatXLSX}
}

// ParseFormat resolves a case-insensitive format tag.
func ParseFormat(tag string) (Format, bool) {
	f := Format(strings.ToUpper(strings.TrimSpace(tag)))
	for _, known := range Formats() {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Extension is the lowercase file extension used for output files.
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// Tabular reports whether the format can only hold a flat table.
func (f Format) Tabular() bool {
	return f == FormatCSV || f == FormatXLSX
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the result of reading any source file.
// Implemented by the Value variants and by *Table.
type Document interface {
	isDocument()
}

// =============================================================================
// VALUE (closed sum type)
// =============================================================================

// Value is a parsed tree node. The marker method is unexported so the set of
// variants is fixed to Null, Scalar, Array and *Object.
type Value interface {
	Document
	isValue()
}

// Null is the absent value.
type Null struct{}

// Scalar is a leaf value kept as its literal text.
type Scalar string

// Array is an ordered sequence of values.
type Array []Value

// Field is a single named entry of an Object.
type Field struct {
	Name  string
	Value Value
}

// Object is an ordered mapping with unique field names.
type Object struct {
	Fields []Field
	index  map[string]int
}

func (Null) isValue()    {}
func (Scalar) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

func (Null) isDocument()    {}
func (Scalar) isDocument()  {}
func (Array) isDocument()   {}
func (*Object) isDocument() {}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set appends a field, or replaces the value in place when the name exists.
func (o *Object) Set(name string, value Value) {
	if o.index == nil {
		o.reindex()
	}
	if i, ok := o.index[name]; ok {
		o.Fields[i].Value = value
		return
	}
	o.index[name] = len(o.Fields)
	o.Fields = append(o.Fields, Field{Name: name, Value: value})
}

// Get returns the value stored under name.
func (o *Object) Get(name string) (Value, bool) {
	if o.index == nil {
		o.reindex()
	}
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.Fields[i].Value, true
}

// Keys returns the field names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		keys[i] = f.Name
	}
	return keys
}

// Len is the number of fields.
func (o *Object) Len() int {
	return len(o.Fields)
}

func (o *Object) reindex() {
	o.index = make(map[string]int, len(o.Fields))
	for i, f := range o.Fields {
		o.index[f.Name] = i
	}
}

// Kind names the variant of v for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Scalar:
		return "scalar"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return fmt.Sprintf("unknown(%T)", v)
	}
}

// =============================================================================
// TABLE
// =============================================================================

// FlatRecord maps a field name to its scalar text.
type FlatRecord map[string]string

// Table is an ordered list of flat records sharing one header.
// The header order is fixed by the first record; fields a later record adds
// are not part of the table.
type Table struct {
	Header  []string
	Records []FlatRecord
}

func (*Table) isDocument() {}

// Rows renders every record in header order. Missing fields become "".
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(t.Header))
		for j, name := range t.Header {
			row[j] = rec[name]
		}
		rows[i] = row
	}
	return rows
}

// ToValue lifts the table into an array of objects keyed in header order.
func (t *Table) ToValue() Array {
	arr := make(Array, len(t.Records))
	for i, rec := range t.Records {
		obj := NewObject()
		for _, name := range t.Header {
			obj.Set(name, Scalar(rec[name]))
		}
		arr[i] = obj
	}
	return arr
}
