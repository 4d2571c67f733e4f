package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness for iterative deepening search: it reruns
// Root at increasing depth, publishing a PV after each completed iteration,
// until a depth limit, a root position with no legal moves, a soft time
// limit, or an explicit Halt stops it.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, pos board.Position, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, pos, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, pos board.Position, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := enforceTimeControl(ctx, h, opt.TimeControl, pos.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		nodes, score, moves, err := root.Search(wctx, pos, depth, h.quit.Closed())
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", pos, depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}

		logw.Debugf(ctx, "Searched %v: %v", pos, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(depth) == limit {
			return // halt: reached max depth
		}
		if len(moves) == 0 {
			return // halt: no legal moves, checkmate or stalemate -- deepening further is pointless
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
