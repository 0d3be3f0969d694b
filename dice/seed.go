package dice

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// DefaultSeed is the seed used when a reproducible run does not specify one.
const DefaultSeed uint64 = 0x123456789ABCDEF0

// A SeedSource hands out seeds for new dice.
type SeedSource interface {
	NextSeed() uint64
}

// CryptoSeedSource draws seeds from the operating system's secure random
// number generator.
type CryptoSeedSource struct{}

// NextSeed returns 8 bytes read from crypto/rand. It panics if the system
// generator fails, which crypto/rand documents as unrecoverable.
func (CryptoSeedSource) NextSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}

	return binary.LittleEndian.Uint64(buf[:])
}

// FixedSeedSource always returns the same seed.
type FixedSeedSource uint64

// NextSeed returns the fixed seed.
func (s FixedSeedSource) NextSeed() uint64 {
	return uint64(s)
}

// SequenceSeedSource derives a reproducible stream of seeds from a base
// seed. Two sources created with the same base produce the same sequence.
type SequenceSeedSource struct {
	lock sync.Mutex
	sm   splitMix64
}

// NewSequenceSeedSource creates a SequenceSeedSource.
func NewSequenceSeedSource(base uint64) *SequenceSeedSource {
	return &SequenceSeedSource{sm: splitMix64{state: base}}
}

// NextSeed returns the next seed of the sequence.
func (s *SequenceSeedSource) NextSeed() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.sm.next()
}
