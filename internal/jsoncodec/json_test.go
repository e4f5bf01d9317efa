package jsoncodec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ginjaninja78/file-converter/internal/config"
	apperrors "github.com/ginjaninja78/file-converter/internal/errors"
	"github.com/ginjaninja78/file-converter/internal/types"
)

func TestDecode_PreservesOrderAndLiterals(t *testing.T) {
	input := `{"zeta": 1.50, "alpha": true, "mid": null, "list": [3, "x", false], "nested": {"b": "2", "a": "1"}}`

	v, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	obj, ok := v.(*types.Object)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, []string{"zeta", "alpha", "mid", "list", "nested"}, obj.Keys())

	zeta, _ := obj.Get("zeta")
	assert.Equal(t, types.Scalar("1.50"), zeta)
	alpha, _ := obj.Get("alpha")
	assert.Equal(t, types.Scalar("true"), alpha)
	mid, _ := obj.Get("mid")
	assert.Equal(t, types.Null{}, mid)

	list, _ := obj.Get("list")
	assert.Equal(t, types.Array{types.Scalar("3"), types.Scalar("x"), types.Scalar("false")}, list)

	nested, _ := obj.Get("nested")
	nestedObj, ok := nested.(*types.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, nestedObj.Keys())
}

func TestDecode_EscapesAndDuplicates(t *testing.T) {
	v, err := Decode(strings.NewReader(`{"a\"b": "line\nbreak", "k": "1", "k": "2"}`))
	require.NoError(t, err)

	obj := v.(*types.Object)
	assert.Equal(t, []string{`a"b`, "k"}, obj.Keys())
	s, _ := obj.Get(`a"b`)
	assert.Equal(t, types.Scalar("line\nbreak"), s)
	k, _ := obj.Get("k")
	assert.Equal(t, types.Scalar("2"), k)
}

func TestDecode_Scalars(t *testing.T) {
	v, err := Decode(strings.NewReader(`  "hello" `))
	require.NoError(t, err)
	assert.Equal(t, types.Scalar("hello"), v)

	v, err = Decode(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Equal(t, types.Array{}, v)
}

func TestDecode_Errors(t *testing.T) {
	for _, input := range []string{"", "   \n", `{"a": }`, `[1, 2`, `{"a":1} {"b":2}`} {
		_, err := Decode(strings.NewReader(input))
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, apperrors.ErrParse), input)
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	_, err := Decode(strings.NewReader("[{\"a\":\"\xff\xfe\"}]"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParse))
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestEncode_ArrayOfObjects(t *testing.T) {
	arr := types.Array{}
	for _, row := range [][2]string{{"Alice", "30"}, {"Bob", "25"}} {
		obj := types.NewObject()
		obj.Set("name", types.Scalar(row[0]))
		obj.Set("age", types.Scalar(row[1]))
		arr = append(arr, obj)
	}

	out, err := Encode(arr, config.Default().JSON)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, gjson.Valid(text))
	assert.Contains(t, text, `"name": "Alice"`)
	assert.Contains(t, text, `"age": "30"`)
	assert.Less(t, strings.Index(text, `"name"`), strings.Index(text, `"age"`))
	assert.Equal(t, "Bob", gjson.Get(text, "1.name").String())
	assert.Equal(t, gjson.String, gjson.Get(text, "0.age").Type)
}

func TestEncode_Table(t *testing.T) {
	table := &types.Table{
		Header:  []string{"b", "a"},
		Records: []types.FlatRecord{{"a": "1", "b": "2"}},
	}

	out, err := Encode(table, config.Default().JSON)
	require.NoError(t, err)

	var keys []string
	gjson.GetBytes(out, "0").ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	assert.Equal(t, []string{"b", "a"}, keys)
}

func TestEncode_NullAndSpecialCharacters(t *testing.T) {
	obj := types.NewObject()
	obj.Set("empty", types.Null{})
	obj.Set("html", types.Scalar("<a & b>"))

	out, err := Encode(obj, config.Default().JSON)
	require.NoError(t, err)

	assert.Contains(t, string(out), `"empty": null`)
	assert.Contains(t, string(out), `"html": "<a & b>"`)
}

func TestRoundTrip(t *testing.T) {
	input := `[{"id":"1","tags":["a","b"],"meta":{"x":null}}]`

	v, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	out, err := Encode(v, config.Default().JSON)
	require.NoError(t, err)
	again, err := Decode(strings.NewReader(string(out)))
	require.NoError(t, err)

	assert.Equal(t, v, again)
}
