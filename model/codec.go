package model

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EnumPolicy decides what decoding does with an enum value outside the
// closed set.
type EnumPolicy int

const (
	// EnumStrict rejects unknown members with ErrUnknownEnumMember.
	EnumStrict EnumPolicy = iota
	// EnumLenient decodes unknown members as absent.
	EnumLenient
)

func (p EnumPolicy) String() string {
	if p == EnumLenient {
		return "lenient"
	}
	return "strict"
}

func ParseEnumPolicy(s string) (EnumPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return EnumStrict, nil
	case "lenient":
		return EnumLenient, nil
	default:
		return EnumStrict, &UnknownEnumMemberError{Enum: "enum policy", Value: s}
	}
}

type decodeOptions struct {
	enumPolicy EnumPolicy
}

type DecodeOption func(*decodeOptions)

func WithEnumPolicy(policy EnumPolicy) DecodeOption {
	return func(o *decodeOptions) {
		o.enumPolicy = policy
	}
}

func newDecodeOptions(opts []DecodeOption) decodeOptions {
	options := decodeOptions{enumPolicy: EnumStrict}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not encode json: %w", err)
	}
	return data, nil
}

// EncodeXML encodes v with the XML header. The root element is the Go type
// name, e.g. <SearchResult>.
func EncodeXML(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("could not encode xml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON decodes a SearchResult. Unknown keys are ignored. Errors are
// *DecodeError values matching ErrMalformedInput, ErrTypeMismatch or
// ErrUnknownEnumMember.
func DecodeJSON(data []byte, opts ...DecodeOption) (*SearchResult, error) {
	options := newDecodeOptions(opts)

	var result SearchResult
	if err := result.decodeJSON(data, options.enumPolicy); err != nil {
		return nil, err
	}
	return &result, nil
}

// DecodeXML decodes a SearchResult from its XML form. Absent and empty
// collections cannot be told apart in XML; both decode as absent.
func DecodeXML(data []byte, opts ...DecodeOption) (*SearchResult, error) {
	options := newDecodeOptions(opts)

	var wire searchResultWire
	if err := xml.Unmarshal(data, &wire); err != nil {
		return nil, classifyXMLError(err)
	}

	queryType, err := resolveQueryType(wire.QueryType, options.enumPolicy)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		QueryText:      wire.QueryText,
		QueryType:      queryType,
		Entities:       wire.EntityList,
		Attributes:     wire.Attributes,
		FullTextResult: wire.FullTextResultList,
	}, nil
}

func classifyJSONError(err error) error {
	var decodeErr *DecodeError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var enumErr *UnknownEnumMemberError

	switch {
	case errors.As(err, &decodeErr):
		return decodeErr
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Kind: ErrMalformedInput, Err: err}
	case errors.As(err, &typeErr):
		return &DecodeError{Kind: ErrTypeMismatch, Field: typeErr.Field, Err: err}
	case errors.As(err, &enumErr):
		return &DecodeError{Kind: ErrUnknownEnumMember, Err: err}
	default:
		return &DecodeError{Kind: ErrMalformedInput, Err: err}
	}
}

func classifyXMLError(err error) error {
	var decodeErr *DecodeError
	var syntaxErr *xml.SyntaxError
	var numErr *strconv.NumError
	var unmarshalErr xml.UnmarshalError
	var enumErr *UnknownEnumMemberError

	switch {
	case errors.As(err, &decodeErr):
		return decodeErr
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Kind: ErrMalformedInput, Err: err}
	case errors.As(err, &numErr), errors.As(err, &unmarshalErr):
		return &DecodeError{Kind: ErrTypeMismatch, Err: err}
	case errors.As(err, &enumErr):
		return &DecodeError{Kind: ErrUnknownEnumMember, Err: err}
	default:
		return &DecodeError{Kind: ErrMalformedInput, Err: err}
	}
}
