package model

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedInput    = errors.New("malformed input")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrUnknownEnumMember = errors.New("unknown enum member")
)

// DecodeError is returned by the decoders. Kind is one of the sentinel errors
// above, so callers can use errors.Is(err, ErrTypeMismatch) and friends.
type DecodeError struct {
	Kind  error
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s in field %s: %s", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type UnknownEnumMemberError struct {
	Enum  string
	Value string
}

func (e *UnknownEnumMemberError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Enum, e.Value)
}

func (e *UnknownEnumMemberError) Is(target error) bool {
	return target == ErrUnknownEnumMember
}
