package eval

import "fmt"

// Score is a signed evaluation in pawns from the perspective of the side to
// move. Material alone stays far inside the bounds: even promoting every
// pawn against a bare king sums to well under two hundred pawns, so
// [MinScore; MaxScore] saturates any real evaluation.
type Score float32

const (
	// MinScore and MaxScore bound every real evaluation. MinScore doubles
	// as the checkmated score.
	MinScore Score = -1000000
	MaxScore Score = 1000000

	// NegInf is strictly worse than any real score; the negamax move loop
	// starts from it so even a forced mate replaces it.
	NegInf = MinScore - 1
)

func (s Score) String() string {
	return fmt.Sprintf("%.2f", s)
}
