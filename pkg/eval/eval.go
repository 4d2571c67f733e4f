// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/halvard/gauntlet/pkg/board"
)

// Evaluator is a static position evaluator. It returns a Score in pawns from
// the perspective of the side to move: positive favors the mover, negative
// favors the opponent.
type Evaluator interface {
	Evaluate(ctx context.Context, pos board.Position) Score
}

// Material returns the nominal material advantage balance for the side to
// move: the sum of its own piece values minus the opponent's, with no
// positional terms.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos board.Position) Score {
	turn := pos.Turn()
	opp := turn.Opponent()

	mine := pos.Side(turn)
	theirs := pos.Side(opp)

	var score Score
	for p := board.ZeroPiece; p < board.NumPieces; p++ {
		diff := mine.Board(p).PopCount() - theirs.Board(p).PopCount()
		score += Score(diff) * Score(p.NominalValue())
	}
	return score
}

// Randomize wraps base with bounded millipawn noise added to every leaf
// evaluation, so otherwise-tied moves are not always resolved the same way.
// A zero limit returns base unchanged.
func Randomize(base Evaluator, millipawns uint, seed int64) Evaluator {
	if millipawns == 0 {
		return base
	}
	return randomized{base: base, noise: NewRandom(int(millipawns), seed)}
}

type randomized struct {
	base  Evaluator
	noise Random
}

func (r randomized) Evaluate(ctx context.Context, pos board.Position) Score {
	return r.base.Evaluate(ctx, pos) + r.noise.Evaluate(ctx, pos)
}
