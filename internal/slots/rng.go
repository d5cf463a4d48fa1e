package slots

import (
	"math/rand/v2"

	"github.com/osse101/QuotaPit_Go/internal/utils"
)

// RandomSource yields uniform floats in [0, 1).
// Every draw of a spin goes through one source, in order: grid cells row-major, then the penalty roll.
type RandomSource interface {
	Float64() float64
}

const secureResolution = 1 << 53

// cryptoSource is the default source, backed by crypto/rand
type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	n, err := utils.SecureRandomInt(0, secureResolution-1)
	if err != nil {
		return utils.RandomFloat()
	}
	return float64(n) / secureResolution
}

// DefaultRNG returns the crypto-backed source. It is safe for concurrent use.
func DefaultRNG() RandomSource { return cryptoSource{} }

// seededSource is a replicable PCG source for tests and simulation
type seededSource struct{ r *rand.Rand }

// NewSeededRNG returns a deterministic source. It is not safe for concurrent use.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 { return s.r.Float64() }

// SequenceSource replays fixed draws, cycling when exhausted
type SequenceSource struct {
	values []float64
	next   int
}

// NewSequenceSource returns a source that yields values in order
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws returns how many values have been consumed
func (s *SequenceSource) Draws() int {
	return s.next
}
