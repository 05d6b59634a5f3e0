package search

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fishderby/fingerprint"
)

// CachePolicy decides how far a cached score is trusted.
type CachePolicy int

const (
	// CacheReference returns any cached score for a fingerprint, whatever
	// depth, side or score spread it was computed under.
	CacheReference CachePolicy = iota
	// CacheBounded only trusts an entry computed at least as deep, for the
	// same side to move and the same score spread, and uses its bound flag
	// to narrow the window.
	CacheBounded
	CacheOff
)

func (p CachePolicy) String() string {
	switch p {
	case CacheBounded:
		return "bounded"
	case CacheOff:
		return "off"
	}
	return "reference"
}

func ParseCachePolicy(s string) (CachePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reference":
		return CacheReference, nil
	case "bounded":
		return CacheBounded, nil
	case "off", "none":
		return CacheOff, nil
	}
	return CacheReference, fmt.Errorf("unknown cache policy %q", s)
}

type boundFlag uint8

const (
	ttExact boundFlag = iota + 1
	ttLower
	ttUpper
)

type CacheEntry struct {
	Score float64
	// Depth is the remaining depth the score was computed with.
	Depth int
	// Side is the player to move at the cached node.
	Side int
	// Spread is the root player's score spread at the cached node.
	Spread int
	flag   boundFlag
}

// entrySize is a rough per-entry cost of the map, used to size the cache
// from a memory budget.
const entrySize = 80

// TranspositionCache maps position fingerprints to scores. It lives as
// long as the solver that owns it, normally one game. It is not safe for
// concurrent writes; the counters are atomic so they can be read from
// another goroutine.
type TranspositionCache struct {
	table      map[fingerprint.Key]CacheEntry
	maxEntries int

	lookups atomic.Uint64
	hits    atomic.Uint64
	stored  atomic.Uint64
	dropped atomic.Uint64
}

// NewTranspositionCache returns a cache holding at most maxEntries
// positions; 0 means unbounded.
func NewTranspositionCache(maxEntries int) *TranspositionCache {
	return &TranspositionCache{
		table:      make(map[fingerprint.Key]CacheEntry),
		maxEntries: maxEntries,
	}
}

// EntriesForMemory turns a fraction of the system memory into an entry
// count. A non-positive fraction means unbounded.
func EntriesForMemory(fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	total := memory.TotalMemory()
	n := int(fraction * float64(total) / entrySize)
	log.Debug().Int("max-entries", n).
		Uint64("total-system-memory-bytes", total).
		Float64("fraction", fraction).
		Msg("transposition-cache-size")
	return n
}

func (t *TranspositionCache) Lookup(key fingerprint.Key) (CacheEntry, bool) {
	t.lookups.Add(1)
	e, ok := t.table[key]
	if ok {
		t.hits.Add(1)
	}
	return e, ok
}

// Store overwrites any entry for key. When the cache is full new keys are
// dropped.
func (t *TranspositionCache) Store(key fingerprint.Key, e CacheEntry) {
	if t.maxEntries > 0 && len(t.table) >= t.maxEntries {
		if _, ok := t.table[key]; !ok {
			t.dropped.Add(1)
			return
		}
	}
	if e.flag == 0 {
		e.flag = ttExact
	}
	t.table[key] = e
	t.stored.Add(1)
}

func (t *TranspositionCache) Len() int {
	return len(t.table)
}

func (t *TranspositionCache) Clear() {
	clear(t.table)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stored.Store(0)
	t.dropped.Store(0)
}

func (t *TranspositionCache) Lookups() uint64 { return t.lookups.Load() }
func (t *TranspositionCache) Hits() uint64    { return t.hits.Load() }
func (t *TranspositionCache) Stored() uint64  { return t.stored.Load() }
func (t *TranspositionCache) Dropped() uint64 { return t.dropped.Load() }
