package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SearchResult is the envelope returned for a catalog search. Every field is
// optional: nil means absent and is omitted on the wire, while a non-nil
// empty slice is encoded as [].
//
// A SearchResult is filled in by the search layer and treated as immutable
// once handed out. It is not safe for concurrent mutation.
type SearchResult struct {
	QueryText      *string                `json:"queryText,omitempty" xml:"queryText,omitempty"`
	QueryType      *QueryType             `json:"queryType,omitempty" xml:"queryType,omitempty"`
	Entities       []*EntityHeader        `json:"entities,omitempty" xml:"entities,omitempty"`
	Attributes     *AttributeSearchResult `json:"attributes,omitempty" xml:"attributes,omitempty"`
	FullTextResult []*FullTextResult      `json:"fullTextResult,omitempty" xml:"fullTextResult,omitempty"`
}

// searchResultWire is the decoded shape of a SearchResult before the query
// type is resolved against the enum policy.
type searchResultWire struct {
	QueryText      *string                `json:"queryText,omitempty" xml:"queryText,omitempty"`
	QueryType      *string                `json:"queryType,omitempty" xml:"queryType,omitempty"`
	Entities       *[]*EntityHeader       `json:"entities,omitempty" xml:"-"`
	Attributes     *AttributeSearchResult `json:"attributes,omitempty" xml:"attributes,omitempty"`
	FullTextResult *[]*FullTextResult     `json:"fullTextResult,omitempty" xml:"-"`

	EntityList         []*EntityHeader   `json:"-" xml:"entities"`
	FullTextResultList []*FullTextResult `json:"-" xml:"fullTextResult"`
}

func NewSearchResult(queryText string, queryType QueryType) *SearchResult {
	return &SearchResult{
		QueryText: &queryText,
		QueryType: &queryType,
	}
}

func (s *SearchResult) GetQueryText() string {
	if s == nil || s.QueryText == nil {
		return ""
	}
	return *s.QueryText
}

func (s *SearchResult) GetQueryType() (QueryType, bool) {
	if s == nil || s.QueryType == nil {
		return 0, false
	}
	return *s.QueryType, true
}

// AddEntity appends entity after removing every entity already present with
// the same guid, so the newest header wins and appears once, at the end.
// A nil entity is appended as is.
func (s *SearchResult) AddEntity(entity *EntityHeader) {
	if s.Entities == nil {
		s.Entities = []*EntityHeader{}
	}
	s.Entities = removeByGUID(s.Entities, entity.GetGUID())
	s.Entities = append(s.Entities, entity)
}

// RemoveEntity drops every entity sharing the guid of entity. It is a no-op
// when nothing matches or the list is absent.
func (s *SearchResult) RemoveEntity(entity *EntityHeader) {
	if len(s.Entities) == 0 {
		return
	}
	s.Entities = removeByGUID(s.Entities, entity.GetGUID())
}

func removeByGUID(entities []*EntityHeader, guid *string) []*EntityHeader {
	kept := entities[:0]
	for _, existing := range entities {
		if !sameGUID(existing.GetGUID(), guid) {
			kept = append(kept, existing)
		}
	}
	// clear the tail so dropped headers can be collected
	for i := len(kept); i < len(entities); i++ {
		entities[i] = nil
	}
	return kept
}

// AddFullTextResult appends a hit, keeping the order the engine produced.
func (s *SearchResult) AddFullTextResult(result *FullTextResult) {
	if s.FullTextResult == nil {
		s.FullTextResult = []*FullTextResult{}
	}
	s.FullTextResult = append(s.FullTextResult, result)
}

func (s *SearchResult) Equal(other *SearchResult) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}

	if !optionalStringEqual(s.QueryText, other.QueryText) {
		return false
	}
	if (s.QueryType == nil) != (other.QueryType == nil) ||
		(s.QueryType != nil && *s.QueryType != *other.QueryType) {
		return false
	}
	if !s.Attributes.Equal(other.Attributes) {
		return false
	}

	if (s.Entities == nil) != (other.Entities == nil) || len(s.Entities) != len(other.Entities) {
		return false
	}
	for i := range s.Entities {
		if !s.Entities[i].Equal(other.Entities[i]) {
			return false
		}
	}

	if (s.FullTextResult == nil) != (other.FullTextResult == nil) || len(s.FullTextResult) != len(other.FullTextResult) {
		return false
	}
	for i := range s.FullTextResult {
		if !s.FullTextResult[i].Equal(other.FullTextResult[i]) {
			return false
		}
	}
	return true
}

func optionalStringEqual(a, b *string) bool {
	return sameGUID(a, b)
}

func (s *SearchResult) Hash() uint64 {
	h := newHasher()
	if s == nil {
		h.tag(hashAbsent)
		return h.sum()
	}
	h.tag(hashPresent)

	h.optionalString(s.QueryText)
	if s.QueryType == nil {
		h.tag(hashAbsent)
	} else {
		h.tag(hashPresent)
		h.uint64(uint64(*s.QueryType))
	}

	if s.Entities == nil {
		h.tag(hashAbsent)
	} else {
		h.tag(hashPresent)
		h.length(len(s.Entities))
		for _, entity := range s.Entities {
			entity.hash(h)
		}
	}

	s.Attributes.hash(h)

	if s.FullTextResult == nil {
		h.tag(hashAbsent)
	} else {
		h.tag(hashPresent)
		h.length(len(s.FullTextResult))
		for _, result := range s.FullTextResult {
			result.hash(h)
		}
	}
	return h.sum()
}

func (s *SearchResult) String() string {
	if s == nil {
		return "<nil>"
	}

	queryType := "<nil>"
	if s.QueryType != nil {
		queryType = s.QueryType.String()
	}

	var sb strings.Builder
	sb.WriteString("SearchResult{")
	fmt.Fprintf(&sb, "queryText=%s", renderOptionalString(s.QueryText))
	fmt.Fprintf(&sb, ", queryType=%s", queryType)
	fmt.Fprintf(&sb, ", entities=%s", renderList(s.Entities))
	fmt.Fprintf(&sb, ", attributes=%s", s.Attributes)
	fmt.Fprintf(&sb, ", fullTextResult=%s", renderList(s.FullTextResult))
	sb.WriteString("}")
	return sb.String()
}

func renderList[T fmt.Stringer](items []T) string {
	if items == nil {
		return "<nil>"
	}
	rendered := make([]string, len(items))
	for i, item := range items {
		rendered[i] = item.String()
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

func (s SearchResult) MarshalJSON() ([]byte, error) {
	wire := searchResultWire{
		QueryText:      s.QueryText,
		Entities:       present(s.Entities),
		Attributes:     s.Attributes,
		FullTextResult: present(s.FullTextResult),
	}
	if s.QueryType != nil {
		name, err := s.QueryType.MarshalText()
		if err != nil {
			return nil, err
		}
		queryType := string(name)
		wire.QueryType = &queryType
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes strictly: an unknown queryType is an error.
func (s *SearchResult) UnmarshalJSON(data []byte) error {
	return s.decodeJSON(data, EnumStrict)
}

func (s *SearchResult) decodeJSON(data []byte, policy EnumPolicy) error {
	var wire searchResultWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return classifyJSONError(err)
	}

	queryType, err := resolveQueryType(wire.QueryType, policy)
	if err != nil {
		return err
	}

	*s = SearchResult{
		QueryText:  wire.QueryText,
		QueryType:  queryType,
		Attributes: wire.Attributes,
	}
	if wire.Entities != nil {
		s.Entities = *wire.Entities
	}
	if wire.FullTextResult != nil {
		s.FullTextResult = *wire.FullTextResult
	}
	return nil
}

func resolveQueryType(name *string, policy EnumPolicy) (*QueryType, error) {
	if name == nil {
		return nil, nil
	}

	queryType, err := ParseQueryType(*name)
	if err != nil {
		if policy == EnumLenient {
			return nil, nil
		}
		return nil, &DecodeError{Kind: ErrUnknownEnumMember, Field: "queryType", Err: err}
	}
	return &queryType, nil
}
