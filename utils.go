package e32

import (
	"math"

	"github.com/h2non/filetype"
	"golang.org/x/exp/constraints"
)

// inBounds reports whether [offset, offset+length) lies within size bytes.
// The sum is computed in 64 bits so that a wrapping offset is rejected.
func inBounds[T constraints.Unsigned](offset, length T, size uint32) bool {
	end := uint64(offset) + uint64(length)
	return end >= uint64(offset) && end <= uint64(size)
}

type EntropyCalculator struct {
	size        int
	frequencies [256]uint64
}

func (e *EntropyCalculator) Write(p []byte) (n int, err error) {
	e.size += len(p)
	for _, v := range p {
		e.frequencies[v]++
	}
	return len(p), err
}

func (e *EntropyCalculator) Sum() (entropy float64) {
	if e.size == 0 {
		return
	}

	for _, p := range e.frequencies {
		if p > 0 {
			freq := float64(p) / float64(e.size)
			entropy += freq * math.Log2(freq)
		}
	}
	return -entropy
}

// DetectFileType returns the MIME type sniffed from data, or "Data".
func DetectFileType(data []byte) string {
	kind, _ := filetype.Match(data)
	if kind == filetype.Unknown {
		return "Data"
	}
	return kind.MIME.Value
}
