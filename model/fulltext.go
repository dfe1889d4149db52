package model

import (
	"fmt"
	"math"
	"strconv"
)

// FullTextResult is one scored hit of a full-text search.
type FullTextResult struct {
	Entity *EntityHeader `json:"entity,omitempty" xml:"entity,omitempty"`
	Score  *float64      `json:"score,omitempty" xml:"score,omitempty"`
}

func NewFullTextResult(entity *EntityHeader, score float64) *FullTextResult {
	return &FullTextResult{Entity: entity, Score: &score}
}

func (f *FullTextResult) Equal(other *FullTextResult) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	return f.Entity.Equal(other.Entity) && scoresEqual(f.Score, other.Score)
}

// scoresEqual treats NaN as equal to NaN so that Equal stays reflexive.
func scoresEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b || (math.IsNaN(*a) && math.IsNaN(*b))
}

func (f *FullTextResult) Hash() uint64 {
	h := newHasher()
	f.hash(h)
	return h.sum()
}

func (f *FullTextResult) hash(h *hasher) {
	if f == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	f.Entity.hash(h)
	h.optionalFloat(f.Score)
}

func (f *FullTextResult) String() string {
	if f == nil {
		return "<nil>"
	}

	score := "<nil>"
	if f.Score != nil {
		score = strconv.FormatFloat(*f.Score, 'g', -1, 64)
	}
	return fmt.Sprintf("FullTextResult{entity=%s, score=%s}", f.Entity, score)
}
