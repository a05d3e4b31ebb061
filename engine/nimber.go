package engine

import "sync"

// Cache memoizes nimbers by stack height. A cache is valid for exactly one
// rule set: legality, and therefore game value, depends on the rules, so
// values must never be shared across rule sets. Entries are immutable once
// written. The zero value is not usable; call NewCache.
type Cache struct {
	mu      sync.Mutex
	nimbers map[Stack]Nimber
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{nimbers: make(map[Stack]Nimber)}
}

// Len reports how many heights have been computed so far.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nimbers)
}

// Lookup returns the cached nimber for height, if present.
func (c *Cache) Lookup(height Stack) (Nimber, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nimbers[height]
	return n, ok
}

// NimberForHeight computes the Sprague-Grundy value of a single stack of the
// given height under rules, memoizing every height it visits in cache. The
// cache lock is held for the whole computation, so concurrent callers on the
// same cache never duplicate or interleave work for a height; independent
// caches need no coordination at all.
func NimberForHeight(rules []Rule, height Stack, cache *Cache) Nimber {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return nimberLocked(rules, height, cache)
}

// nimberLocked requires cache.mu to be held. The recursion is well founded:
// every legal move strictly lowers the total height of the resulting
// position, since a take removes at least one coin and a split preserves
// the remainder.
func nimberLocked(rules []Rule, height Stack, cache *Cache) Nimber {
	if n, ok := cache.nimbers[height]; ok {
		return n
	}

	// Every value reachable in one legal move goes into the exclusion set;
	// the nimber is the minimum excludant of that set. No legal moves
	// leaves the set empty and the nimber zero: a terminal loss for the
	// player to move.
	seen := make(map[Nimber]bool)
	for _, move := range CalculateLegalMoves(rules, height) {
		var value Nimber
		if move.Split.Split {
			// A split leaves a disjunctive sum of two independent
			// games, whose value is the XOR of the parts.
			value = nimberLocked(rules, move.Split.A, cache) ^
				nimberLocked(rules, move.Split.B, cache)
		} else {
			value = nimberLocked(rules, height-Stack(move.Amount), cache)
		}
		seen[value] = true
	}

	nimber := Nimber(0)
	for seen[nimber] {
		nimber++
	}
	cache.nimbers[height] = nimber
	return nimber
}

// NimberForPosition is the XOR of the per-stack nimbers, per the
// Sprague-Grundy sum theorem. The position is a first-player win iff the
// result is nonzero.
func NimberForPosition(rules []Rule, pos Position, cache *Cache) Nimber {
	var n Nimber
	for _, stack := range pos {
		n ^= NimberForHeight(rules, stack, cache)
	}
	return n
}
