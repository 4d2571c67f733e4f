package search

import (
	"context"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/eval"
	"github.com/halvard/gauntlet/pkg/movegen"
)

// Minimax implements plain recursive minimax search in negamax form: every
// ply negates and swaps the roles of mover and opponent, so the same
// recursive case handles both sides. Useful for comparison and validation;
// the engine's only search strategy.
//
// function negamax(node, depth) is
//
//	if depth = 0 or node is terminal then
//	    return the heuristic value of node
//	value := -inf
//	for each child of node do
//	    value := max(value, -negamax(child, depth-1))
//	return value
//
// See: https://en.wikipedia.org/wiki/Negamax.
type Minimax struct {
	Eval eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, pos board.Position, depth int, quit <-chan struct{}) (uint64, eval.Score, []board.Move, error) {
	run := &runMinimax{eval: m.Eval, quit: quit}
	score, moves := run.search(ctx, pos, depth)
	if IsClosed(quit) {
		return run.nodes, 0, nil, ErrHalted
	}
	return run.nodes, score, moves, nil
}

type runMinimax struct {
	eval  eval.Evaluator
	nodes uint64
	quit  <-chan struct{}
}

// search returns the score and principal variation from the perspective of
// the side to move in pos.
func (r *runMinimax) search(ctx context.Context, pos board.Position, depth int) (eval.Score, []board.Move) {
	r.nodes++
	if IsClosed(r.quit) {
		return 0, nil
	}

	moves := movegen.Legal(pos)
	if len(moves) == 0 {
		if pos.InCheck(pos.Turn()) {
			return eval.MinScore, nil // checkmate: worst possible score for the side to move
		}
		return 0, nil // stalemate
	}
	if depth == 0 {
		return r.eval.Evaluate(ctx, pos), nil
	}

	best := eval.NegInf
	var pv []board.Move
	for _, mv := range orderMoves(pos, moves) {
		next := pos.Apply(mv)
		s, rest := r.search(ctx, next, depth-1)
		s = -s
		if s > best {
			best = s
			pv = append([]board.Move{mv}, rest...)
		}
	}
	return best, pv
}

// orderMoves visits captures and promotions first (highest captured/promoted
// piece value first), via the priority-queue move ordering the rest of the
// search stack uses: without pruning this cannot change the result, but it
// does mean that among equal-score moves, the one negamax reports as best is
// the more forcing one, and it puts cutoff-worthy moves first against a
// future alpha-beta search over the same evaluator.
func orderMoves(pos board.Position, moves []board.Move) []board.Move {
	ml := board.NewMoveList(moves, func(m board.Move) board.MovePriority {
		var pri board.MovePriority
		if _, captured, ok := pos.Square(m.To); ok {
			pri += board.MovePriority(captured.NominalValue()) * 10
		}
		if m.Promotion != board.NoPiece {
			pri += board.MovePriority(m.Promotion.NominalValue())
		}
		return pri
	})

	ordered := make([]board.Move, 0, len(moves))
	for mv, ok := ml.Next(); ok; mv, ok = ml.Next() {
		ordered = append(ordered, mv)
	}
	return ordered
}
