package model

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"
)

var valueJSONTestCases = []struct {
	name string
	json string
	kind Kind
}{
	{name: "Null", json: `null`, kind: KindNull},
	{name: "True", json: `true`, kind: KindBool},
	{name: "Integer", json: `42`, kind: KindNumber},
	{name: "Float", json: `0.125`, kind: KindNumber},
	{name: "Exponent", json: `1e+21`, kind: KindNumber},
	{name: "String", json: `"hello"`, kind: KindString},
	{name: "EmptyArray", json: `[]`, kind: KindArray},
	{name: "NestedArray", json: `[1,"two",[false,null]]`, kind: KindArray},
	{name: "EmptyObject", json: `{}`, kind: KindObject},
	{name: "Object", json: `{"a":1,"b":{"c":[true]}}`, kind: KindObject},
}

func TestValueJSON(t *testing.T) {
	for _, testCase := range valueJSONTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)

			var value Value
			assert.NoError(json.Unmarshal([]byte(testCase.json), &value))
			assert.Equal(testCase.kind, value.Kind())

			encoded, err := json.Marshal(value)
			assert.NoError(err)
			assert.JSONEq(testCase.json, string(encoded))

			var decoded Value
			assert.NoError(json.Unmarshal(encoded, &decoded))
			assert.True(value.Equal(decoded), "decoded value should equal the original")
			assert.Equal(value.Hash(), decoded.Hash())
		})
	}
}

func TestValueKeepsNumberText(t *testing.T) {
	assert := require.New(t)

	var value Value
	assert.NoError(json.Unmarshal([]byte(`1`), &value))
	encoded, err := json.Marshal(value)
	assert.NoError(err)
	assert.Equal(`1`, string(encoded))
}

func TestValueNumbersCompareNumerically(t *testing.T) {
	assert := require.New(t)

	var one, oneFloat Value
	assert.NoError(json.Unmarshal([]byte(`1`), &one))
	assert.NoError(json.Unmarshal([]byte(`1.0`), &oneFloat))

	assert.True(one.Equal(oneFloat))
	assert.Equal(one.Hash(), oneFloat.Hash())
	assert.True(IntValue(1).Equal(NumberValue(1)))
	assert.False(IntValue(1).Equal(StringValue("1")))
}

func TestValueLargeIntegersCompareExactly(t *testing.T) {
	assert := require.New(t)

	var odd, even, evenFloat Value
	assert.NoError(json.Unmarshal([]byte(`9007199254740993`), &odd))
	assert.NoError(json.Unmarshal([]byte(`9007199254740992`), &even))
	assert.NoError(json.Unmarshal([]byte(`9007199254740992.0`), &evenFloat))

	assert.False(odd.Equal(even), "integers beyond float64 precision should not collapse")
	assert.True(even.Equal(IntValue(9007199254740992)))
	assert.True(even.Equal(evenFloat))
	assert.Equal(even.Hash(), evenFloat.Hash())
}

func TestValueOf(t *testing.T) {
	assert := require.New(t)

	value, err := ValueOf(map[string]any{"n": 3, "list": []any{"a", true, nil}})
	assert.NoError(err)

	expected := ObjectValue(map[string]Value{
		"n":    IntValue(3),
		"list": ArrayValue(StringValue("a"), BoolValue(true), NullValue()),
	})
	assert.True(expected.Equal(value))

	_, err = ValueOf(struct{}{})
	assert.ErrorIs(err, ErrTypeMismatch)
}

func TestValueInvalidNumberDoesNotEncode(t *testing.T) {
	assert := require.New(t)

	_, err := json.Marshal(NumberValue(nanValue()))
	assert.Error(err)
}

func TestValueXML(t *testing.T) {
	assert := require.New(t)

	type wrapper struct {
		Cell Value `xml:"cell"`
	}

	values := []Value{
		NullValue(),
		BoolValue(false),
		IntValue(-7),
		NumberValue(2.5),
		StringValue(" padded "),
		StringValue(""),
		ArrayValue(),
		ArrayValue(IntValue(1), ArrayValue(StringValue("x"))),
		ObjectValue(map[string]Value{"k": StringValue("v"), "nested": ObjectValue(map[string]Value{"z": NullValue()})}),
	}

	for _, value := range values {
		data, err := xml.Marshal(wrapper{Cell: value})
		assert.NoError(err)

		var decoded wrapper
		assert.NoError(xml.Unmarshal(data, &decoded), string(data))
		assert.True(value.Equal(decoded.Cell), "xml round trip of %s gave %s", value, decoded.Cell)
	}
}

func TestValueXMLRejectsBadNumber(t *testing.T) {
	assert := require.New(t)

	type wrapper struct {
		Cell Value `xml:"cell"`
	}

	var decoded wrapper
	err := xml.Unmarshal([]byte(`<wrapper><cell type="number">NaN</cell></wrapper>`), &decoded)
	assert.ErrorIs(err, ErrTypeMismatch)
}
