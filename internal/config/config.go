// =============================================================================
// File Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration that tunes how each
// format is read and written. Every setting has a built-in default, so the
// converter runs without any configuration file at all.
//
// CONFIGURATION FILE (config.yaml):
//   csv:  delimiter, quoting and line endings
//   json: indentation and single-line array width
//   xml:  root/item element names, indentation, declaration
//   xlsx: sheet name
//   log:  level and output format
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/ginjaninja78/file-converter/internal/validation"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds all converter settings.
type Config struct {
	CSV  CSVSettings  `yaml:"csv"`
	JSON JSONSettings `yaml:"json"`
	XML  XMLSettings  `yaml:"xml"`
	XLSX XLSXSettings `yaml:"xlsx"`
	Log  LogSettings  `yaml:"log"`
}

// CSVSettings contains settings for reading and writing CSV files.
type CSVSettings struct {
	// Delimiter is the single character separating fields.
	// Common values: "," (comma), ";" , "|" (pipe), "\t" or "tab"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// LazyQuotes allows quotes that don't follow strict CSV rules.
	LazyQuotes bool `yaml:"lazy_quotes"`

	// TrimLeadingSpace ignores leading white space in a field.
	TrimLeadingSpace bool `yaml:"trim_leading_space"`

	// UseCRLF terminates written lines with \r\n.
	UseCRLF bool `yaml:"use_crlf"`
}

// JSONSettings controls JSON output.
type JSONSettings struct {
	// Indent is the string used for each indentation level.
	// Default: "  " (two spaces)
	Indent string `yaml:"indent"`

	// Width is the maximum column width for arrays of scalars printed on a
	// single line. 0 always expands arrays.
	// Default: 80
	Width *int `yaml:"width"`
}

// XMLSettings controls XML output.
type XMLSettings struct {
	// RootElement wraps the whole document.
	// Default: "root"
	RootElement string `yaml:"root_element"`

	// ItemElement tags elements of an array that has no field name of its
	// own, such as a top-level array.
	// Default: "item"
	ItemElement string `yaml:"item_element"`

	// Indent is the string used for each indentation level.
	// Default: "  " (two spaces)
	Indent string `yaml:"indent"`

	// Declaration emits <?xml version="1.0" encoding="UTF-8"?> first.
	Declaration bool `yaml:"declaration"`
}

// XLSXSettings controls workbook reading and writing.
type XLSXSettings struct {
	// Sheet is the worksheet to read and the name of the written sheet.
	// When reading a workbook without this sheet, the first sheet is used.
	// Default: "Sheet1"
	Sheet string `yaml:"sheet"`
}

// LogSettings controls diagnostic logging.
type LogSettings struct {
	// Level: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// JSON switches log lines to JSON objects.
	JSON bool `yaml:"json"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, required bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.JSON.Indent == "" {
		cfg.JSON.Indent = "  "
	}
	if cfg.JSON.Width == nil {
		width := 80
		cfg.JSON.Width = &width
	}
	if cfg.XML.RootElement == "" {
		cfg.XML.RootElement = "root"
	}
	if cfg.XML.ItemElement == "" {
		cfg.XML.ItemElement = "item"
	}
	if cfg.XML.Indent == "" {
		cfg.XML.Indent = "  "
	}
	if cfg.XLSX.Sheet == "" {
		cfg.XLSX.Sheet = "Sheet1"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// validate rejects settings the codecs cannot honour.
func validate(cfg *Config) error {
	if _, err := cfg.CSV.Comma(); err != nil {
		return err
	}

	for _, name := range []string{cfg.XML.RootElement, cfg.XML.ItemElement} {
		if !validation.IsXMLName(name) {
			return fmt.Errorf("xml element name %q is not a valid XML name", name)
		}
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	return nil
}

// Comma resolves the delimiter setting to a single rune.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("csv delimiter %q must be a single character", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("csv delimiter %q is not allowed", s.Delimiter)
	}
	return r, nil
}
