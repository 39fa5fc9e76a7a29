package ambient

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source supplies uniform randoms in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeededSource returns a deterministic source for reproducible runs.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewCryptoSource returns a ChaCha8 stream keyed from crypto/rand. It falls
// back to the runtime-seeded global generator if the system entropy source
// fails.
func NewCryptoSource() Source {
	var key [32]byte
	if _, err := crand.Read(key[:]); err != nil {
		binary.LittleEndian.PutUint64(key[:], rand.Uint64())
		binary.LittleEndian.PutUint64(key[8:], rand.Uint64())
	}
	return rand.New(rand.NewChaCha8(key))
}

// between returns a uniform value in [lo, hi).
func between(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// intBetween returns a uniform integer in [lo, hi].
func intBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n := lo + int(src.Float64()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}
