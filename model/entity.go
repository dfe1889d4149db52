package model

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	EntityStatusActive  = "ACTIVE"
	EntityStatusDeleted = "DELETED"
)

// Attributes holds the attribute values of an entity keyed by attribute name.
type Attributes map[string]Value

// EntityHeader is the catalog's lightweight handle for an entity. Search
// results only rely on its guid; the other fields travel along for display.
type EntityHeader struct {
	TypeName            string     `json:"typeName,omitempty" xml:"typeName,omitempty"`
	Attributes          Attributes `json:"attributes,omitempty" xml:"attributes,omitempty"`
	GUID                *string    `json:"guid,omitempty" xml:"guid,omitempty"`
	Status              string     `json:"status,omitempty" xml:"status,omitempty"`
	DisplayText         string     `json:"displayText,omitempty" xml:"displayText,omitempty"`
	ClassificationNames []string   `json:"classificationNames,omitempty" xml:"classificationNames,omitempty"`
	Labels              []string   `json:"labels,omitempty" xml:"labels,omitempty"`
}

func NewEntityHeader(guid string, typeName string) *EntityHeader {
	return &EntityHeader{
		TypeName: typeName,
		GUID:     &guid,
		Status:   EntityStatusActive,
	}
}

// GetGUID is safe to call on a nil header, which has no guid.
func (e *EntityHeader) GetGUID() *string {
	if e == nil {
		return nil
	}
	return e.GUID
}

// Attribute returns the named attribute, falling back to the header fields
// for guid, typeName, status and displayText.
func (e *EntityHeader) Attribute(name string) (Value, bool) {
	if e == nil {
		return Value{}, false
	}
	if value, ok := e.Attributes[name]; ok {
		return value, true
	}

	switch name {
	case "guid":
		if e.GUID == nil {
			return NullValue(), true
		}
		return StringValue(*e.GUID), true
	case "typeName":
		return StringValue(e.TypeName), true
	case "status":
		return StringValue(e.Status), true
	case "displayText":
		return StringValue(e.DisplayText), true
	}
	return Value{}, false
}

// sameGUID treats two absent guids as equal and an absent guid as different
// from any present one.
func sameGUID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Equal compares headers structurally. Nil and empty collections are equal
// since the wire format omits both.
func (e *EntityHeader) Equal(other *EntityHeader) bool {
	if e == nil || other == nil {
		return e == nil && other == nil
	}

	return e.TypeName == other.TypeName &&
		sameGUID(e.GUID, other.GUID) &&
		e.Status == other.Status &&
		e.DisplayText == other.DisplayText &&
		stringsEqual(e.ClassificationNames, other.ClassificationNames) &&
		stringsEqual(e.Labels, other.Labels) &&
		e.Attributes.Equal(other.Attributes)
}

func (e *EntityHeader) Hash() uint64 {
	h := newHasher()
	e.hash(h)
	return h.sum()
}

func (e *EntityHeader) hash(h *hasher) {
	if e == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.string(e.TypeName)
	h.optionalString(e.GUID)
	h.string(e.Status)
	h.string(e.DisplayText)
	h.strings(e.ClassificationNames)
	h.strings(e.Labels)
	e.Attributes.hash(h)
}

func (e *EntityHeader) String() string {
	if e == nil {
		return "<nil>"
	}

	var sb strings.Builder
	sb.WriteString("EntityHeader{")
	fmt.Fprintf(&sb, "guid=%s", renderOptionalString(e.GUID))
	fmt.Fprintf(&sb, ", typeName=%q", e.TypeName)
	fmt.Fprintf(&sb, ", status=%q", e.Status)
	fmt.Fprintf(&sb, ", displayText=%q", e.DisplayText)
	fmt.Fprintf(&sb, ", attributes=%s", e.Attributes)
	fmt.Fprintf(&sb, ", classificationNames=%q", e.ClassificationNames)
	fmt.Fprintf(&sb, ", labels=%q", e.Labels)
	sb.WriteString("}")
	return sb.String()
}

func (a Attributes) Equal(other Attributes) bool {
	if len(a) != len(other) {
		return false
	}
	for key, value := range a {
		otherValue, ok := other[key]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}
	return true
}

func (a Attributes) hash(h *hasher) {
	keys := sortedKeys(a)
	h.length(len(keys))
	for _, key := range keys {
		h.string(key)
		a[key].hash(h)
	}
}

func (a Attributes) String() string {
	if a == nil {
		return "{}"
	}
	return ObjectValue(a).String()
}

func (a Attributes) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeXMLMembers(e, a); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (a *Attributes) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	members, err := decodeXMLMembers(d)
	if err != nil {
		return err
	}
	*a = members
	return nil
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func renderOptionalString(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", *s)
}
