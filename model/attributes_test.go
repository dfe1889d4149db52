package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttributeSearchResultJSON(t *testing.T) {
	assert := require.New(t)

	attributes := NewAttributeSearchResult(
		[]string{"n", "t"},
		[]Row{
			{StringValue("a"), IntValue(1)},
			{StringValue("b"), IntValue(2)},
		},
	)

	data, err := json.Marshal(attributes)
	assert.NoError(err)
	assert.Equal(`{"name":["n","t"],"values":[["a",1],["b",2]]}`, string(data))

	var decoded AttributeSearchResult
	assert.NoError(json.Unmarshal(data, &decoded))
	assert.True(attributes.Equal(&decoded))
	assert.Equal(attributes.Hash(), decoded.Hash())
}

func TestAttributeSearchResultCellsKeepJSONType(t *testing.T) {
	assert := require.New(t)

	input := `{"name":["s","n","b","z","o","a"],"values":[["x",1.5,true,null,{"k":"v"},[1,2]]]}`

	var decoded AttributeSearchResult
	assert.NoError(json.Unmarshal([]byte(input), &decoded))
	assert.Len(decoded.Values, 1)

	kinds := make([]Kind, 0, len(decoded.Values[0]))
	for _, cell := range decoded.Values[0] {
		kinds = append(kinds, cell.Kind())
	}
	assert.Equal([]Kind{KindString, KindNumber, KindBool, KindNull, KindObject, KindArray}, kinds)

	encoded, err := json.Marshal(&decoded)
	assert.NoError(err)
	assert.JSONEq(input, string(encoded))
}

func TestAttributeSearchResultOmitsAbsentFields(t *testing.T) {
	assert := require.New(t)

	data, err := json.Marshal(&AttributeSearchResult{Name: []string{"only"}})
	assert.NoError(err)
	assert.Equal(`{"name":["only"]}`, string(data))
}

var attributeValidateTestCases = []struct {
	name      string
	result    *AttributeSearchResult
	expectErr bool
}{
	{name: "Nil", result: nil},
	{name: "NoColumns", result: &AttributeSearchResult{Values: []Row{{IntValue(1)}}}},
	{name: "Consistent", result: NewAttributeSearchResult([]string{"a", "b"}, []Row{{IntValue(1), IntValue(2)}})},
	{name: "ShortRow", result: NewAttributeSearchResult([]string{"a", "b"}, []Row{{IntValue(1), IntValue(2)}, {IntValue(3)}}), expectErr: true},
	{name: "LongRow", result: NewAttributeSearchResult([]string{"a"}, []Row{{IntValue(1), IntValue(2)}}), expectErr: true},
}

func TestAttributeSearchResultValidate(t *testing.T) {
	for _, testCase := range attributeValidateTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			err := testCase.result.Validate()
			if testCase.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
		})
	}
}

func TestAttributeSearchResultEquality(t *testing.T) {
	assert := require.New(t)

	a := NewAttributeSearchResult([]string{"n"}, []Row{{StringValue("a")}})
	b := NewAttributeSearchResult([]string{"n"}, []Row{{StringValue("a")}})
	c := NewAttributeSearchResult([]string{"n"}, []Row{{StringValue("b")}})

	assert.True(a.Equal(b))
	assert.Equal(a.Hash(), b.Hash())
	assert.False(a.Equal(c))
	assert.False(a.Equal(&AttributeSearchResult{Name: []string{"n"}}))
	assert.False((&AttributeSearchResult{}).Equal(&AttributeSearchResult{Name: []string{}}))
	assert.Equal(`AttributeSearchResult{name=["n"], values=[["a"]]}`, a.String())
}
