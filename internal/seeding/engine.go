// Package seeding forms heats from a pool of registered athletes and places
// each heat's athletes into lanes.
package seeding

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Errors returned by Partition and AssignLanes
var (
	ErrStraightFinalCapacity = errors.New("straight final exceeds lane capacity")
	ErrGroupExceedsLanes     = errors.New("heat has more athletes than lanes")
	ErrUnknownSeriesMethod   = errors.New("unknown series method")
	ErrUnknownLaneMethod     = errors.New("unknown lane method")
	ErrInvalidHeatsCount     = errors.New("heats count must be at least 1")
	ErrInvalidMaxLanes       = errors.New("max lanes must be at least 1")
)

// Engine runs the partition and lane policies. The random source and the
// collator are not safe for concurrent use, so both are guarded by mu.
type Engine struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	collator *collate.Collator
}

// Option configures an Engine
type Option func(*Engine)

// WithSeed makes RANDOM and PAIRS reproducible
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets the random source directly
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = r
	}
}

// WithLocale sets the collation used by ALPHABETICAL_NAME
func WithLocale(locale string) Option {
	return func(e *Engine) {
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.English
		}
		e.collator = collate.New(tag)
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		e.rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if e.collator == nil {
		e.collator = collate.New(language.English)
	}
	return e
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rnd.Shuffle(n, swap)
}

func (e *Engine) coinFlip() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rnd.IntN(2) == 1
}

func (e *Engine) compareNames(a, b string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collator.CompareString(a, b)
}
