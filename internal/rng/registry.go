// Package rng owns the run seed and derives independent, reproducible random
// streams per named subsystem.
//
// A stream for (seed, name) is seeded from the 128-bit xxh3 hash of
// "seed_name" and produces the same sequence no matter which other streams
// were created or consumed before it.
package rng

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/zeebo/xxh3"
)

// SeedAlphabet is the set of characters a generated seed is drawn from.
const SeedAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SeedLength is the length of a generated seed.
const SeedLength = 6

// ErrNotSeeded is the panic value when a stream is requested before Initialize.
var ErrNotSeeded = errors.New("rng: registry used before Initialize")

// Well-known subsystem names.
const (
	StreamPlacement = "placement"
	StreamPilot     = "pilot"
)

// Stream is a deterministic pseudo-random sequence.
type Stream struct {
	*rand.Rand
}

func newStream(key string) *Stream {
	h := xxh3.HashString128(key)
	return &Stream{Rand: rand.New(rand.NewPCG(h.Hi, h.Lo))}
}

// Range returns a uniform float64 in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Registry derives and caches subsystem streams for one run.
type Registry struct {
	seed    string
	seeded  bool
	streams map[string]*Stream
}

// NewRegistry creates an uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]*Stream),
	}
}

// Initialize sets the master seed and clears all cached streams.
// An empty seed generates a fresh one. Returns the seed in use.
func (r *Registry) Initialize(seed string) string {
	if seed == "" {
		seed = GenerateSeed()
	}
	r.seed = seed
	r.seeded = true
	r.streams = make(map[string]*Stream)
	return seed
}

// Seed returns the master seed, or "" before Initialize.
func (r *Registry) Seed() string {
	return r.seed
}

// Initialized reports whether a seed has been set.
func (r *Registry) Initialized() bool {
	return r.seeded
}

// Stream returns the cached stream for a subsystem, creating it on first use.
func (r *Registry) Stream(name string) *Stream {
	r.mustBeSeeded()
	if s, ok := r.streams[name]; ok {
		return s
	}
	s := newStream(r.seed + "_" + name)
	r.streams[name] = s
	return s
}

// OneShot returns a fresh, uncached stream keyed by subsystem and extra.
func (r *Registry) OneShot(name, extra string) *Stream {
	r.mustBeSeeded()
	return newStream(r.seed + "_" + name + "_" + extra)
}

// Reset evicts one cached stream; the next Stream call restarts it.
func (r *Registry) Reset(name string) {
	delete(r.streams, name)
}

// ResetAll evicts every cached stream.
func (r *Registry) ResetAll() {
	clear(r.streams)
}

// Cached returns the number of cached streams.
func (r *Registry) Cached() int {
	return len(r.streams)
}

func (r *Registry) mustBeSeeded() {
	if !r.seeded {
		panic(ErrNotSeeded)
	}
}

// GenerateSeed draws a new seed from SeedAlphabet. Not reproducible.
func GenerateSeed() string {
	var sb strings.Builder
	sb.Grow(SeedLength)
	for range SeedLength {
		sb.WriteByte(SeedAlphabet[rand.IntN(len(SeedAlphabet))])
	}
	return sb.String()
}

// ValidSeed reports whether s has the generated-seed shape.
func ValidSeed(s string) bool {
	if len(s) != SeedLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(SeedAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
