package model

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

const (
	hashAbsent  byte = 0
	hashPresent byte = 1
)

// hasher feeds a structural walk into xxhash. Every optional part is prefixed
// with a presence tag and every variable-length part with its length, so
// distinct structures do not collide by concatenation.
type hasher struct {
	digest *xxhash.Digest
}

func newHasher() *hasher {
	return &hasher{digest: xxhash.New()}
}

func (h *hasher) tag(b byte) {
	h.digest.Write([]byte{b})
}

func (h *hasher) uint64(n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	h.digest.Write(buf[:])
}

func (h *hasher) length(n int) {
	h.uint64(uint64(n))
}

func (h *hasher) string(s string) {
	h.length(len(s))
	h.digest.WriteString(s)
}

func (h *hasher) float(f float64) {
	// -0 == 0 and every NaN equals every other NaN, so they must hash alike
	switch {
	case f == 0:
		f = 0
	case math.IsNaN(f):
		f = math.NaN()
	}
	h.uint64(math.Float64bits(f))
}

func (h *hasher) optionalString(s *string) {
	if s == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.string(*s)
}

func (h *hasher) optionalFloat(f *float64) {
	if f == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.float(*f)
}

func (h *hasher) strings(values []string) {
	h.length(len(values))
	for _, value := range values {
		h.string(value)
	}
}

func (h *hasher) optionalStrings(values []string) {
	if values == nil {
		h.tag(hashAbsent)
		return
	}
	h.tag(hashPresent)
	h.strings(values)
}

func (h *hasher) sum() uint64 {
	return h.digest.Sum64()
}
