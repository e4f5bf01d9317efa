package csvcodec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
)

func defaults() config.CSVSettings {
	return config.Default().CSV
}

func TestDecode(t *testing.T) {
	input := "name,age\nAlice,30\nBob,25\n"

	table, err := Decode(strings.NewReader(input), defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, table.Header)
	assert.Equal(t, []types.FlatRecord{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": "25"},
	}, table.Records)
}

func TestDecode_QuotedFieldsAndBOM(t *testing.T) {
	input := "\xEF\xBB\xBFproduct,description\nWidget,\"A small, useful device\"\n\"Gadget\",\"Premium \"\"quality\"\" item\"\n"

	table, err := Decode(strings.NewReader(input), defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"product", "description"}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "A small, useful device", table.Records[0]["description"])
	assert.Equal(t, `Premium "quality" item`, table.Records[1]["description"])
}

func TestDecode_HeaderOnly(t *testing.T) {
	table, err := Decode(strings.NewReader("name,age\n"), defaults())
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, table.Header)
	assert.Empty(t, table.Records)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		contains string
	}{
		{"empty file", "", apperrors.ErrEmptySource, "CSV file is empty"},
		{"blank lines only", "\n\n", apperrors.ErrEmptySource, "CSV file is empty"},
		{"short row", "name,age\nAlice\n", apperrors.ErrParse, "line 2: row length does not match the header"},
		{"long row", "name,age\nAlice,30,x\n", apperrors.ErrParse, "line 2"},
		{"duplicate header", "name,name\na,b\n", apperrors.ErrParse, "duplicates"},
		{"bare quote", "name\nab\"c\n", apperrors.ErrParse, "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), defaults())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestDecode_CustomDelimiter(t *testing.T) {
	settings := defaults()
	settings.Delimiter = ";"

	table, err := Decode(strings.NewReader("a;b\n1;2\n"), settings)
	require.NoError(t, err)
	assert.Equal(t, types.FlatRecord{"a": "1", "b": "2"}, table.Records[0])
}

func TestEncode(t *testing.T) {
	table := &types.Table{
		Header: []string{"name", "note"},
		Records: []types.FlatRecord{
			{"name": "Alice", "note": "likes, commas"},
			{"name": "Bob"},
		},
	}

	out, err := Encode(table, defaults())
	require.NoError(t, err)
	assert.Equal(t, "name,note\nAlice,\"likes, commas\"\nBob,\n", string(out))
}

func TestEncode_CRLFAndEmptyTable(t *testing.T) {
	settings := defaults()
	settings.UseCRLF = true

	out, err := Encode(&types.Table{Header: []string{"a"}, Records: []types.FlatRecord{{"a": "1"}}}, settings)
	require.NoError(t, err)
	assert.Equal(t, "a\r\n1\r\n", string(out))

	out, err = Encode(&types.Table{}, settings)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRoundTrip(t *testing.T) {
	input := "id,city,zip\n1,New York,10001\n2,\"Boston, MA\",02101\n"

	table, err := Decode(strings.NewReader(input), defaults())
	require.NoError(t, err)

	out, err := Encode(table, defaults())
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestEncode_SingleColumnEmptyCell(t *testing.T) {
	table := &types.Table{
		Header:  []string{"a"},
		Records: []types.FlatRecord{{"a": ""}, {"a": "x"}},
	}

	out, err := Encode(table, defaults())
	require.NoError(t, err)
	assert.Equal(t, "a\n\"\"\nx\n", string(out))

	back, err := Decode(strings.NewReader(string(out)), defaults())
	require.NoError(t, err)
	assert.Equal(t, table.Records, back.Records)

	settings := defaults()
	settings.UseCRLF = true
	out, err = Encode(table, settings)
	require.NoError(t, err)
	assert.Equal(t, "a\r\n\"\"\r\nx\r\n", string(out))
}
