package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// execute runs the CLI with fresh flag state and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	cfgFile, verbose, logJSON = "config.yaml", false, false
	inputType, filePath, outputType, dryRun = "", "", "", false
	for _, name := range []string{"config", "verbose", "log-json"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}
	for _, name := range []string{"input_type", "filepath", "output_type", "dry-run"} {
		convertCmd.Flags().Lookup(name).Changed = false
	}

	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvert_WritesOutputNextToInput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "people.csv", "name,age\nAlice,30\nBob,25\n")

	stdout, _, code := execute(t, "convert", "--input_type", "csv", "--filepath", input, "--output_type", "json")
	require.Equal(t, 0, code)

	outputPath := filepath.Join(dir, "csv-to-json.json")
	assert.Contains(t, stdout, "Successfully converted CSV to JSON. Output saved to: "+outputPath)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.GetBytes(data, "#").Int())
	assert.Equal(t, "Bob", gjson.GetBytes(data, "1.name").String())
	assert.Equal(t, "25", gjson.GetBytes(data, "1.age").String())
}

func TestConvert_UnsupportedPairIsNotAFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "people.json", `[{"name":"Alice"}]`)

	stdout, stderr, code := execute(t, "convert", "--input_type", "json", "--filepath", input, "--output_type", "json")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Conversion from json to json is not supported.\n", stdout)
	assert.Empty(t, stderr)
	assert.NoFileExists(t, filepath.Join(dir, "json-to-json.json"))
}

func TestConvert_FailuresLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		from    string
		to      string
		prefix  string
	}{
		{"malformed JSON", "bad.json", `{"a": `, "json", "csv", "Parse error:"},
		{"empty CSV", "empty.csv", "", "csv", "xml", "Empty input:"},
		{"single object to CSV", "obj.json", `{"name":"Alice"}`, "json", "csv", "Unsupported document shape:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeFile(t, dir, tt.file, tt.content)

			_, stderr, code := execute(t, "convert", "--input_type", tt.from, "--filepath", input, "--output_type", tt.to)
			assert.Equal(t, 1, code)
			assert.True(t, strings.HasPrefix(stderr, tt.prefix), stderr)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestConvert_MissingInputFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.xml")

	_, stderr, code := execute(t, "convert", "--input_type", "xml", "--filepath", missing, "--output_type", "json")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "File error:"), stderr)
}

func TestConvert_VerboseLogsErrorKind(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "bad.json", `{"a": `)

	_, stderr, code := execute(t, "-v", "convert", "--input_type", "json", "--filepath", input, "--output_type", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Conversion failed")
	assert.Contains(t, stderr, "kind=parse")
}

func TestConvert_DryRun(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "person.json", `{"name":"Alice","age":30}`)

	stdout, _, code := execute(t, "convert", "--input_type", "JSON", "--filepath", input, "--output_type", "XML", "--dry-run")
	require.Equal(t, 0, code)
	assert.Equal(t, "<root>\n  <name>Alice</name>\n  <age>30</age>\n</root>\n", stdout)
	assert.NoFileExists(t, filepath.Join(dir, "json-to-xml.xml"))
}

func TestConvert_RequiresFlags(t *testing.T) {
	_, stderr, code := execute(t, "convert", "--input_type", "csv")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "required flag")
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "people.csv", "name,age\nAlice,30\n")
	cfg := writeFile(t, dir, "settings.yaml", "xml:\n  root_element: people\n  item_element: person\n")

	stdout, _, code := execute(t, "--config", cfg, "convert",
		"--input_type", "csv", "--filepath", input, "--output_type", "xml", "--dry-run")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "<people>\n  <person>\n"), stdout)

	_, stderr, code := execute(t, "--config", filepath.Join(dir, "missing.yaml"), "formats")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read config file")
}

func TestFormats(t *testing.T) {
	stdout, _, code := execute(t, "formats")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 12)
	assert.Equal(t, "JSON -> XML", lines[0])
	assert.Contains(t, lines, "XLSX -> CSV")
}

func TestVersion(t *testing.T) {
	stdout, _, code := execute(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "File Converter")
	assert.Contains(t, stdout, "Version:    "+Version)
	assert.Contains(t, stdout, "JSON, XML, CSV, XLSX")
}
