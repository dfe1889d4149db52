package model

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// Row is one line of an attribute search result, one cell per column.
type Row []Value

// AttributeSearchResult is a tabular projection of a search: column names
// and rows of values. Every row is expected to have len(Name) cells; the
// producer is responsible for that, see Validate.
type AttributeSearchResult struct {
	Name   []string `json:"name,omitempty" xml:"name"`
	Values []Row    `json:"values,omitempty" xml:"values"`
}

type attributeSearchResultJSON struct {
	Name   *[]string `json:"name,omitempty"`
	Values *[]Row    `json:"values,omitempty"`
}

func NewAttributeSearchResult(name []string, values []Row) *AttributeSearchResult {
	return &AttributeSearchResult{Name: name, Values: values}
}

// Validate reports the first row whose width differs from the column count.
func (a *AttributeSearchResult) Validate() error {
	if a == nil || a.Name == nil {
		return nil
	}
	for i, row := range a.Values {
		if len(row) != len(a.Name) {
			return fmt.Errorf("row %d has %d values but there are %d columns", i, len(row), len(a.Name))
		}
	}
	return nil
}

func (a *AttributeSearchResult) Equal(other *AttributeSearchResult) bool {
	if a == nil || other == nil {
		return a == nil && other == nil
	}
	if !optionalStringsEqual(a.Name, other.Name) {
		return false
	}
	if (a.Values == nil) != (other.Values == nil) || len(a.Values) != len(other.Values) {
		return false
	}
	for i := range a.Values {
		if !a.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}

func (a *AttributeSearchResult) Hash() uint64 {
	h := newHasher()
	a.hash(h)
	return h.sum()
}

func (a *AttributeSearchResult) hash(h *hasher) {
	if a == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.optionalStrings(a.Name)
	if a.Values == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.length(len(a.Values))
	for _, row := range a.Values {
		row.hash(h)
	}
}

func (a *AttributeSearchResult) String() string {
	if a == nil {
		return "<nil>"
	}

	values := "<nil>"
	if a.Values != nil {
		rendered := make([]string, len(a.Values))
		for i, row := range a.Values {
			rendered[i] = row.String()
		}
		values = "[" + strings.Join(rendered, ", ") + "]"
	}
	return fmt.Sprintf("AttributeSearchResult{name=%s, values=%s}", renderOptionalStrings(a.Name), values)
}

// MarshalJSON omits absent columns and rows but keeps empty ones as [].
func (a AttributeSearchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(attributeSearchResultJSON{
		Name:   present(a.Name),
		Values: present(a.Values),
	})
}

func (r Row) Equal(other Row) bool {
	if (r == nil) != (other == nil) {
		return false
	}
	return valuesEqual(r, other)
}

func (r Row) hash(h *hasher) {
	if r == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.length(len(r))
	for _, cell := range r {
		cell.hash(h)
	}
}

func (r Row) String() string {
	if r == nil {
		return "<nil>"
	}
	cells := make([]string, len(r))
	for i, cell := range r {
		cells[i] = cell.String()
	}
	return "[" + strings.Join(cells, ", ") + "]"
}

func (r Row) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, cell := range r {
		if err := cell.MarshalXML(e, xml.StartElement{Name: xml.Name{Local: "item"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (r *Row) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	row := Row{}
	err := decodeXMLChildren(d, func(child xml.StartElement) error {
		var cell Value
		if err := d.DecodeElement(&cell, &child); err != nil {
			return err
		}
		row = append(row, cell)
		return nil
	})
	if err != nil {
		return err
	}
	*r = row
	return nil
}

func present[T any](s []T) *[]T {
	if s == nil {
		return nil
	}
	return &s
}

func optionalStringsEqual(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return stringsEqual(a, b)
}

func renderOptionalStrings(s []string) string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q", s)
}
