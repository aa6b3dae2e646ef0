package lazy

import (
	"github.com/2win9s/Simple-Regex/internal/bitset"
	"github.com/2win9s/Simple-Regex/internal/utf8set"
	"github.com/2win9s/Simple-Regex/prog"
)

// Cache is the lazy DFA's ring-buffered state table. States are
// preallocated into a fixed power-of-two-capacity slice that is never
// reallocated, so indices into it (and the pointers other states'
// Next/WildcardNext fields hold) stay valid until the cache resets —
// see spec §9 "Lazy DFA ownership". Eviction is FIFO, not LRU, matching
// the original's simplicity-over-hit-rate choice (spec §9 "Eviction
// policy"). Cache is not safe for concurrent use; the engine that owns
// it is itself single-threaded per spec §5.
type Cache struct {
	reduced *prog.Reduced
	classes []*utf8set.Set

	states   []*State
	byKey    map[string]uint32
	write    uint32
	capacity uint32

	overflowCount int
	overflowLim   int
	rebuildCount  int
	rebuildLim    int

	seed uint32
}

// New builds a cache over reduced (the SAVE-elided program) and its
// class table, with a ring buffer of capacity slots (rounded up to a
// power of two) and the given overflow/rebuild circuit-breaker limits.
func New(reduced *prog.Reduced, classes []*utf8set.Set, capacity uint32, overflowLim, rebuildLim int) *Cache {
	c := &Cache{
		reduced:     reduced,
		classes:     classes,
		capacity:    nextPow2(capacity),
		overflowLim: overflowLim,
		rebuildLim:  rebuildLim,
	}
	c.reset()
	return c
}

// NewWithConfig builds a cache using cfg's capacity and circuit-breaker
// limits.
func NewWithConfig(reduced *prog.Reduced, classes []*utf8set.Set, cfg Config) *Cache {
	return New(reduced, classes, cfg.Capacity, cfg.OverflowLim, cfg.RebuildLim)
}

// nextPow2 rounds n up to the next power of two (minimum 2) by finding the
// bit position of its highest set bit via a leading-zero count, rather than
// shifting one bit at a time.
func nextPow2(n uint32) uint32 {
	if n < 2 {
		return 2
	}
	lz := bitset.LeadingZeros64(uint64(n - 1))
	return uint32(1) << uint(64-lz)
}

// reset drops every cached state and re-seeds the buffer from the
// program's entry point. It is called on construction and whenever the
// overflow circuit breaker trips.
func (c *Cache) reset() {
	c.states = make([]*State, c.capacity)
	c.byKey = make(map[string]uint32, c.capacity)
	c.write = 0
	c.overflowCount = 0

	seed := newState(len(c.reduced.Insts))
	seed.HasWildcard, seed.IsMatch = closure(c.reduced, c.classes, c.reduced.Start, seed.Set, seed.Filter)
	c.seed = c.push(seed)
}

// Seed returns the ring-buffer index of the state reached by epsilon
// closure from the program's entry point, rebuilding it if a prior
// overflow reset dropped it.
func (c *Cache) Seed() uint32 {
	return c.seed
}

// State returns the state stored at ring-buffer index idx.
func (c *Cache) State(idx uint32) *State {
	return c.states[idx]
}

// RebuildLimitExceeded reports whether the circuit breaker has tripped
// enough times that callers should abandon the DFA and fall back to the
// NFA simulator for the remainder of the search, per spec §4.8's "Run
// loop" bail-out clause.
func (c *Cache) RebuildLimitExceeded() bool {
	return c.rebuildCount >= c.rebuildLim
}

// push inserts state into the ring buffer, deduplicating on its hybrid
// set key: an existing equal state is reused rather than duplicated.
// Eviction is FIFO; overflowing overflowLim evictions resets the entire
// cache (spec §4.8 "If the resulting state's hybrid-set key already
// exists...").
func (c *Cache) push(state *State) uint32 {
	key := state.Set.Key()
	if idx, ok := c.byKey[key]; ok {
		return idx
	}

	idx := c.write
	if old := c.states[idx]; old != nil {
		delete(c.byKey, old.Set.Key())
		c.overflowCount++
		if c.overflowCount >= c.overflowLim {
			c.rebuildCount++
			c.resetKeepingRebuildCount()
			return c.push(state)
		}
	}

	c.states[idx] = state
	c.byKey[key] = idx
	c.write = (c.write + 1) % c.capacity
	return idx
}

func (c *Cache) resetKeepingRebuildCount() {
	rebuilds := c.rebuildCount
	c.reset()
	c.rebuildCount = rebuilds
}

// Step consumes code point u from the state at idx, building the
// successor lazily if it hasn't been computed yet. ok is false when no
// live op accepts u and there is no wildcard fallback (a dead state for
// this input), or when the rebuild circuit breaker has already tripped
// and the caller should fall back to the NFA simulator instead of
// pushing further into the DFA.
func (c *Cache) Step(idx uint32, u uint32) (next uint32, ok bool) {
	st := c.states[idx]
	inFilter := st.Filter.Test(u)

	if inFilter {
		if n := st.Next.Get(u); n != noNext {
			return n, true
		}
	} else if st.HasWildcard {
		if st.WildcardNext != noNext {
			return st.WildcardNext, true
		}
	} else {
		return 0, false
	}

	if c.RebuildLimitExceeded() {
		return 0, false
	}

	fresh := newState(len(c.reduced.Insts))
	for _, pc := range st.Set.Values() {
		inst := c.reduced.Insts[pc]
		switch inst.Kind {
		case prog.Char:
			if inst.Data == u {
				w, m := closure(c.reduced, c.classes, inst.LB, fresh.Set, fresh.Filter)
				fresh.HasWildcard = fresh.HasWildcard || w
				fresh.IsMatch = fresh.IsMatch || m
			}
		case prog.Class:
			if c.classes[inst.Data].Test(u) {
				w, m := closure(c.reduced, c.classes, inst.LB, fresh.Set, fresh.Filter)
				fresh.HasWildcard = fresh.HasWildcard || w
				fresh.IsMatch = fresh.IsMatch || m
			}
		case prog.Any:
			w, m := closure(c.reduced, c.classes, inst.LB, fresh.Set, fresh.Filter)
			fresh.HasWildcard = fresh.HasWildcard || w
			fresh.IsMatch = fresh.IsMatch || m
		}
	}

	target := c.push(fresh)
	if inFilter {
		st.Next.Set(u, target)
	} else {
		st.WildcardNext = target
	}
	return target, true
}
