package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl carries the clock state the UCI "go" command reports: time
// remaining for each side and the number of moves to the next control
// (zero for sudden death).
type TimeControl struct {
	White, Black time.Duration
	Moves        int
}

// remaining returns the clock time left for c.
func (t TimeControl) remaining(c board.Color) time.Duration {
	if c == board.Black {
		return t.Black
	}
	return t.White
}

// Limits derives the per-move budget for c: a soft limit after which no new
// deepening iteration starts, and a hard cutoff at which the search is
// halted outright. With no move count known, the game is assumed to last
// another 40 moves; the soft limit is half an even share of the remaining
// clock and the hard cutoff three times the soft limit.
func (t TimeControl) Limits(c board.Color) (soft, hard time.Duration) {
	horizon := time.Duration(40)
	if t.Moves > 0 {
		horizon = time.Duration(t.Moves) + 1
	}

	soft = t.remaining(c) / (2 * horizon)
	hard = 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("w=%.1fs b=%.1fs", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("w=%.1fs b=%.1fs moves=%v", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// enforceTimeControl arms the hard-deadline halt for the side to move, if a
// time control is set, and returns the soft limit the deepening loop checks
// between iterations.
func enforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control for %v: soft=%v hard=%v", turn, soft, hard)
	return soft, true
}
