// Package perft implements the perft driver: a recursive legal-move counter
// that serves as the board/movegen core's correctness oracle against the
// published reference tables, plus a transposition-style cache that makes
// repeated counts at production depths tractable. The cache is owned
// entirely by the perft driver and never crosses a task boundary; each slot
// stores the single (depth, nodes) fact perft needs rather than a full
// search bound/move entry.
package perft

import (
	"math/bits"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/movegen"
)

// Perft counts the number of leaf positions reachable from pos in exactly
// depth plies of legal play: at depth 0 every position is one leaf,
// otherwise the sum over every legal successor of its own perft at depth-1.
func Perft(pos board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var nodes uint64
	for _, m := range movegen.Legal(pos) {
		nodes += Perft(pos.Apply(m), depth-1)
	}
	return nodes
}

// Divide returns the perft count at depth broken down by the first move
// played from pos, the standard tool for isolating a move-generation
// divergence against a reference engine.
func Divide(pos board.Position, depth int) map[board.Move]uint64 {
	out := make(map[board.Move]uint64)
	if depth == 0 {
		return out
	}
	for _, m := range movegen.Legal(pos) {
		out[m] = Perft(pos.Apply(m), depth-1)
	}
	return out
}

// minCachedDepth and minCachedPly are the thresholds below which the cache
// is not consulted: transpositions are too rare near the leaves and near the
// root to pay back the safety-feature check.
const (
	minCachedDepth = 2
	minCachedPly   = 4
)

// entry is one perft-cache slot: the node count for one (position, depth)
// pair, guarded by a safety feature to catch index collisions.
type entry struct {
	safety board.ZobristHash
	depth  int32
	nodes  uint64
}

// emptyDepth marks a slot that has never been written; it can never equal a
// real search depth (which is always >= 0).
const emptyDepth = -1

// Cache is a fixed-size transposition cache for Perft, keyed by
// Position.SafetyFeature() -- the Zobrist hash extended with castling
// rights, en-passant file and side to move, so that two positions with
// identical pieces but different rights or mover never collide silently.
// Entries are consulted and written only for remaining depth >= 2 and
// depth-from-root >= 4; below those thresholds the driver recurses freely.
type Cache struct {
	slots []entry
	mask  uint64
}

// NewCache allocates a cache with capacity rounded up to the next power of
// two of size, so that SafetyFeature & mask is a valid slot index.
func NewCache(size int) *Cache {
	n := 1
	if size > 1 {
		n = 1 << bits.Len(uint(size-1))
	}
	slots := make([]entry, n)
	for i := range slots {
		slots[i].depth = emptyDepth
	}
	return &Cache{slots: slots, mask: uint64(n - 1)}
}

func (c *Cache) get(safety board.ZobristHash, depth int) (uint64, bool) {
	e := &c.slots[uint64(safety)&c.mask]
	if e.depth == int32(depth) && e.safety == safety {
		return e.nodes, true
	}
	return 0, false
}

// put stores the entry, keeping whichever of the new and existing entry has
// the greater depth on a slot conflict.
func (c *Cache) put(safety board.ZobristHash, depth int, nodes uint64) {
	e := &c.slots[uint64(safety)&c.mask]
	if e.depth > int32(depth) {
		return
	}
	e.safety = safety
	e.depth = int32(depth)
	e.nodes = nodes
}

// Size returns the cache capacity in slots.
func (c *Cache) Size() int {
	return len(c.slots)
}

// Perft counts the number of leaf positions reachable from pos in exactly
// depth plies of legal play, consulting and populating the cache wherever
// the depth/ply thresholds allow it.
func (c *Cache) Perft(pos board.Position, depth int) uint64 {
	return c.perft(pos, depth, 0)
}

func (c *Cache) perft(pos board.Position, remaining, ply int) uint64 {
	if remaining == 0 {
		return 1
	}

	useCache := remaining >= minCachedDepth && ply >= minCachedPly
	if useCache {
		if nodes, ok := c.get(pos.SafetyFeature(), remaining); ok {
			return nodes
		}
	}

	var nodes uint64
	for _, m := range movegen.Legal(pos) {
		nodes += c.perft(pos.Apply(m), remaining-1, ply+1)
	}

	if useCache {
		c.put(pos.SafetyFeature(), remaining, nodes)
	}
	return nodes
}
