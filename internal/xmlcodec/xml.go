// =============================================================================
// File Converter - XML Codec
// =============================================================================
//
// This module converts XML text to and from the canonical Value tree.
//
// READING (XML-to-object mapping):
//   <root a="1">              {
//     <name>Alice</name>        "a": "1",
//     <tag>x</tag>              "name": "Alice",
//     <tag>y</tag>              "tag": ["x", "y"]
//   </root>                   }
//
//   - The document element itself is not kept, only its content
//   - Attributes and child elements become fields, by local name
//   - Repeated sibling tags collect into an Array at the first position
//   - An element with only text becomes a Scalar (whitespace-only -> "")
//   - Text beside child elements is stored under the field ""
//
// WRITING:
//   <root>                     root element from configuration
//     <name>Alice</name>       object field -> child element
//     <tag>x</tag>             array field -> tag repeated per element
//     <tag>y</tag>
//     <empty/>                 null, "" and empty containers self-close
//   </root>
//
//   Array elements without a field name of their own (a top-level array or
//   an array inside an array) are tagged with the configured item element.
//   Field names that are not valid XML names are sanitized.
//
// =============================================================================

package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
	"github.com/ginjaninja78/file-converter/internal/validation"
)

// TextField is the field name holding mixed-content text.
const TextField = ""

// =============================================================================
// DECODING
// =============================================================================

// Decode parses XML text into a Value tree.
func Decode(r io.Reader) (types.Value, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	var root types.Value
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, syntaxError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, apperrors.NewParseError("multiple root elements", nil)
			}
			root, err = readElement(dec, t)
			if err != nil {
				return nil, err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, apperrors.NewParseError("text outside of the root element", nil)
			}
		}
	}

	if root == nil {
		return nil, apperrors.NewParseError("XML document has no root element", nil)
	}
	return root, nil
}

// readElement consumes tokens up to the matching end element.
func readElement(dec *xml.Decoder, start xml.StartElement) (types.Value, error) {
	obj := types.NewObject()
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		obj.Set(attr.Name.Local, types.Scalar(attr.Value))
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendChild(obj, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return elementValue(obj, text.String()), nil
		}
	}
}

func elementValue(obj *types.Object, text string) types.Value {
	if obj.Len() == 0 {
		if strings.TrimSpace(text) == "" {
			return types.Scalar("")
		}
		return types.Scalar(text)
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		obj.Set(TextField, types.Scalar(trimmed))
	}
	return obj
}

// appendChild stores child under name, turning repeated names into an Array.
// Element values are never arrays, so an Array already stored under name
// can only come from repetition.
func appendChild(obj *types.Object, name string, child types.Value) {
	existing, ok := obj.Get(name)
	if !ok {
		obj.Set(name, child)
		return
	}
	if arr, ok := existing.(types.Array); ok {
		obj.Set(name, append(arr, child))
		return
	}
	obj.Set(name, types.Array{existing, child})
}

func syntaxError(err error) error {
	if errors.Is(err, io.EOF) {
		return apperrors.NewParseError("unexpected end of XML document", err)
	}
	var serr *xml.SyntaxError
	if errors.As(err, &serr) {
		return apperrors.NewParseError(fmt.Sprintf("line %d", serr.Line), errors.New(serr.Msg))
	}
	return apperrors.NewIOError("failed to read XML", err)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders a document as indented XML wrapped in the root element.
func Encode(doc types.Document, settings config.XMLSettings) ([]byte, error) {
	var value types.Value
	switch d := doc.(type) {
	case *types.Table:
		value = d.ToValue()
	case types.Value:
		value = d
	default:
		return nil, apperrors.NewInternalError(fmt.Sprintf("unknown document type %T", doc))
	}

	w := &writer{settings: settings}
	if settings.Declaration {
		w.buffer.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}
	if err := w.writeElement(settings.RootElement, value, 0); err != nil {
		return nil, err
	}

	return w.buffer.Bytes(), nil
}

type writer struct {
	buffer   bytes.Buffer
	settings config.XMLSettings
}

// writeField writes one object field. Arrays repeat the field's tag.
func (w *writer) writeField(name string, value types.Value, level int) error {
	tag := validation.SanitizeXMLName(name)

	arr, ok := value.(types.Array)
	if !ok || len(arr) == 0 {
		return w.writeElement(tag, value, level)
	}
	for _, elem := range arr {
		if err := w.writeElement(tag, elem, level); err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes a single element named tag holding value.
func (w *writer) writeElement(tag string, value types.Value, level int) error {
	switch v := value.(type) {
	case types.Null:
		w.selfClosing(tag, level)
	case types.Scalar:
		if v == "" {
			w.selfClosing(tag, level)
			return nil
		}
		w.indent(level)
		w.buffer.WriteString("<" + tag + ">")
		w.buffer.WriteString(escapeXML(string(v)))
		w.buffer.WriteString("</" + tag + ">\n")
	case types.Array:
		if len(v) == 0 {
			w.selfClosing(tag, level)
			return nil
		}
		w.open(tag, level)
		for _, elem := range v {
			if err := w.writeElement(w.settings.ItemElement, elem, level+1); err != nil {
				return err
			}
		}
		w.close(tag, level)
	case *types.Object:
		if v.Len() == 0 {
			w.selfClosing(tag, level)
			return nil
		}
		w.open(tag, level)
		for _, f := range v.Fields {
			if text, ok := f.Value.(types.Scalar); ok && f.Name == TextField {
				w.indent(level + 1)
				w.buffer.WriteString(escapeXML(string(text)))
				w.buffer.WriteByte('\n')
				continue
			}
			if err := w.writeField(f.Name, f.Value, level+1); err != nil {
				return err
			}
		}
		w.close(tag, level)
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unknown value variant %T", value))
	}
	return nil
}

func (w *writer) indent(level int) {
	for i := 0; i < level; i++ {
		w.buffer.WriteString(w.settings.Indent)
	}
}

func (w *writer) open(tag string, level int) {
	w.indent(level)
	w.buffer.WriteString("<" + tag + ">\n")
}

func (w *writer) close(tag string, level int) {
	w.indent(level)
	w.buffer.WriteString("</" + tag + ">\n")
}

func (w *writer) selfClosing(tag string, level int) {
	w.indent(level)
	w.buffer.WriteString("<" + tag + "/>\n")
}

// escapeXML escapes special characters for XML.
// Characters outside the XML character range become U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			if !isXMLChar(r) {
				r = utf8.RuneError
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
