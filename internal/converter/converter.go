// =============================================================================
// File Converter - Converter Module
// =============================================================================
//
// This module contains the conversion core. A conversion is a single pure
// read -> adapt -> write pipeline selected from a dispatch table keyed by
// the (source, target) format pair.
//
// CONVERSION PIPELINE:
//   1. Resolve both format tags (case-insensitive)
//   2. Look the pair up in the dispatch table; a missing pair, including
//      every same-format pair, is an UnsupportedConversionError
//   3. Open the input file and read it into a canonical Document
//   4. Apply the pair's shape adapter, if any
//   5. Flatten the Document into a Table when the target is tabular
//   6. Render the Document in the target format and return the bytes
//
// The caller names and writes the output file.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/file-converter/internal/config"
	"github.com/ginjaninja78/file-converter/internal/csvcodec"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/jsoncodec"
	"github.com/ginjaninja78/file-converter/internal/logger"
	"github.com/ginjaninja78/file-converter/internal/types"
	"github.com/ginjaninja78/file-converter/internal/xlsxcodec"
	"github.com/ginjaninja78/file-converter/internal/xmlcodec"
)

// =============================================================================
// DISPATCH TABLE TYPES
// =============================================================================

// Pair is a (source, target) format combination.
type Pair struct {
	From types.Format
	To   types.Format
}

func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s", p.From, p.To)
}

// ReadFunc parses a source stream into a canonical document.
type ReadFunc func(r io.Reader) (types.Document, error)

// AdaptFunc reshapes a document between reading and writing.
type AdaptFunc func(doc types.Document) (types.Document, error)

// WriteFunc renders a canonical document in the target format.
type WriteFunc func(doc types.Document) ([]byte, error)

// Conversion is one entry of the dispatch table.
type Conversion struct {
	Read  ReadFunc
	Adapt AdaptFunc
	Write WriteFunc
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter converts files between the supported formats.
type Converter struct {
	config      *config.Config
	logger      logger.Logger
	conversions map[Pair]Conversion
}

// New creates a Converter. A nil config uses the defaults and a nil logger
// discards output.
func New(cfg *config.Config, log logger.Logger) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Converter{config: cfg, logger: log}
	c.conversions = c.dispatchTable()
	return c
}

// dispatchTable lists every supported pair. Pairs not listed, including
// same-format pairs, are unsupported.
func (c *Converter) dispatchTable() map[Pair]Conversion {
	return map[Pair]Conversion{
		{types.FormatJSON, types.FormatXML}:  {Read: c.readJSON, Write: c.writeXML},
		{types.FormatJSON, types.FormatCSV}:  {Read: c.readJSON, Write: c.writeCSV},
		{types.FormatJSON, types.FormatXLSX}: {Read: c.readJSON, Write: c.writeXLSX},

		{types.FormatXML, types.FormatJSON}: {Read: c.readXML, Write: c.writeJSON},
		{types.FormatXML, types.FormatCSV}:  {Read: c.readXML, Adapt: LiftRecordList, Write: c.writeCSV},
		{types.FormatXML, types.FormatXLSX}: {Read: c.readXML, Adapt: LiftRecordList, Write: c.writeXLSX},

		{types.FormatCSV, types.FormatJSON}: {Read: c.readCSV, Write: c.writeJSON},
		{types.FormatCSV, types.FormatXML}:  {Read: c.readCSV, Write: c.writeXML},
		{types.FormatCSV, types.FormatXLSX}: {Read: c.readCSV, Write: c.writeXLSX},

		{types.FormatXLSX, types.FormatJSON}: {Read: c.readXLSX, Write: c.writeJSON},
		{types.FormatXLSX, types.FormatXML}:  {Read: c.readXLSX, Write: c.writeXML},
		{types.FormatXLSX, types.FormatCSV}:  {Read: c.readXLSX, Write: c.writeCSV},
	}
}

// =============================================================================
// PUBLIC API
// =============================================================================

// Resolve validates the format tags and returns the pair and its conversion.
func (c *Converter) Resolve(from, to string) (Pair, Conversion, error) {
	src, okFrom := types.ParseFormat(from)
	dst, okTo := types.ParseFormat(to)
	if !okFrom || !okTo {
		return Pair{}, Conversion{}, apperrors.NewUnsupportedConversionError(from, to)
	}

	pair := Pair{From: src, To: dst}
	conv, ok := c.conversions[pair]
	if !ok {
		return Pair{}, Conversion{}, apperrors.NewUnsupportedConversionError(from, to)
	}
	return pair, conv, nil
}

// Pairs lists the supported pairs in a stable order.
func (c *Converter) Pairs() []Pair {
	var pairs []Pair
	for _, from := range types.Formats() {
		for _, to := range types.Formats() {
			if _, ok := c.conversions[Pair{from, to}]; ok {
				pairs = append(pairs, Pair{from, to})
			}
		}
	}
	return pairs
}

// Convert reads inputPath as format from and returns its content rendered
// as format to. Any failure aborts the whole conversion.
func (c *Converter) Convert(inputPath, from, to string) ([]byte, error) {
	pair, conv, err := c.Resolve(from, to)
	if err != nil {
		return nil, err
	}

	log := c.logger.With("pair", pair.String(), "input", inputPath)
	log.Debug("Starting conversion")

	file, err := os.Open(inputPath)
	if err != nil {
		return nil, apperrors.NewIOError("failed to open input file", err)
	}
	defer file.Close()

	doc, err := conv.Read(file)
	if err != nil {
		return nil, err
	}
	log.Debug("Parsed source", "shape", describe(doc))

	if conv.Adapt != nil {
		doc, err = conv.Adapt(doc)
		if err != nil {
			return nil, err
		}
	}

	if pair.To.Tabular() {
		table, err := c.Flatten(doc)
		if err != nil {
			return nil, err
		}
		doc = table
	}

	out, err := conv.Write(doc)
	if err != nil {
		return nil, err
	}
	log.Debug("Rendered target", "bytes", len(out))

	return out, nil
}

// =============================================================================
// READERS
// =============================================================================

func (c *Converter) readJSON(r io.Reader) (types.Document, error) {
	return jsoncodec.Decode(r)
}

func (c *Converter) readXML(r io.Reader) (types.Document, error) {
	return xmlcodec.Decode(r)
}

func (c *Converter) readCSV(r io.Reader) (types.Document, error) {
	return csvcodec.Decode(r, c.config.CSV)
}

func (c *Converter) readXLSX(r io.Reader) (types.Document, error) {
	return xlsxcodec.Decode(r, c.config.XLSX)
}

// =============================================================================
// WRITERS
// =============================================================================

func (c *Converter) writeJSON(doc types.Document) ([]byte, error) {
	return jsoncodec.Encode(doc, c.config.JSON)
}

func (c *Converter) writeXML(doc types.Document) ([]byte, error) {
	return xmlcodec.Encode(doc, c.config.XML)
}

func (c *Converter) writeCSV(doc types.Document) ([]byte, error) {
	table, err := tableOf(doc)
	if err != nil {
		return nil, err
	}
	return csvcodec.Encode(table, c.config.CSV)
}

func (c *Converter) writeXLSX(doc types.Document) ([]byte, error) {
	table, err := tableOf(doc)
	if err != nil {
		return nil, err
	}
	return xlsxcodec.Encode(table, c.config.XLSX)
}

// tableOf returns the Table a tabular writer receives after flattening.
func tableOf(doc types.Document) (*types.Table, error) {
	table, ok := doc.(*types.Table)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Sprintf("tabular writer received %T, not a table", doc))
	}
	return table, nil
}

// describe summarizes a document for debug logs.
func describe(doc types.Document) string {
	switch d := doc.(type) {
	case *types.Table:
		return fmt.Sprintf("table(%d columns, %d records)", len(d.Header), len(d.Records))
	case types.Array:
		return fmt.Sprintf("array(%d)", len(d))
	case *types.Object:
		return fmt.Sprintf("object(%d fields)", d.Len())
	case types.Value:
		return types.Kind(d)
	default:
		return fmt.Sprintf("%T", doc)
	}
}
