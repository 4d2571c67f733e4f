// Package search contains the search tree algorithm that sits on top of the
// board/movegen core: a depth-bounded best-move search driven by a material
// evaluator. The search tree is a consumer of the core, not part of it --
// this package is deliberately a plain recursive minimax, not
// alpha-beta/PVS/quiescence.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/eval"
)

// ErrHalted is returned by Search when the quit channel closed before the
// search completed.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation found for some search depth.
type PV struct {
	Moves []board.Move
	Score eval.Score
	Depth int
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	pv := board.FormatMoves(p.Moves, func(m board.Move) string { return m.String() })
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, pv)
}

// Search is a depth-bounded best-move search over a position, evaluated by a
// material evaluator at the leaves. It returns the number of nodes visited,
// the score of the position from the perspective of the side to move in pos,
// and the principal variation (best line), or ErrHalted if quit closed
// before the search completed.
type Search interface {
	Search(ctx context.Context, pos board.Position, depth int, quit <-chan struct{}) (uint64, eval.Score, []board.Move, error)
}

// IsClosed reports whether quit has been closed.
func IsClosed(quit <-chan struct{}) bool {
	select {
	case <-quit:
		return true
	default:
		return false
	}
}
