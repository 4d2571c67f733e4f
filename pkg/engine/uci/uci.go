// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/board/fen"
	"github.com/halvard/gauntlet/pkg/engine"
	"github.com/halvard/gauntlet/pkg/perft"
	"github.com/halvard/gauntlet/pkg/search"
	"github.com/halvard/gauntlet/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

const defaultHashMB = 16

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	perftCache *perft.Cache // sized by the "Hash" UCI option; used by "go perft N"

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:          e,
		out:        out,
		ponder:     make(chan search.PV, 400),
		perftCache: perft.NewCache(defaultHashMB << 20 / 32),
		quit:       make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	// * uci
	//
	//	tell engine to use the uci (universal chess interface),
	//	this will be send once as a first command after program boot
	//	to tell the engine to switch to uci mode.
	//	After receiving the uci command the engine must identify itself with the "id" command
	//	and sent the "option" commands to tell the GUI which engine settings the engine supports if any.
	//	After that the engine should sent "uciok" to acknowledge the uci mode.

	logw.Infof(ctx, "UCI protocol initialized")

	// * id
	//	* name <x>
	//	* author <x>

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	// * option
	//
	//	Depth and Noise mirror engine.Options directly. Hash sizes the perft
	//	cache ("go perft N"): there is no search-level transposition table
	//	(see engine.Engine.Analyze), so Hash has no effect on normal search.

	d.out <- "option name Depth type spin default 0 min 0 max 64"
	d.out <- "option name Noise type spin default 0 min 0 max 1000"
	d.out <- fmt.Sprintf("option name Hash type spin default %v min 1 max 4096", defaultHashMB)

	// * uciok

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				// * isready / readyok
				//
				//	this is used to synchronize the engine with the GUI.

				d.out <- "readyok"

			case "debug":
				// * debug [ on | off ]
				//
				//	switch the debug mode of the engine on and off. Unused: the
				//	driver always logs via logw regardless of this setting.

			case "setoption":
				// * setoption name <id> [value <x>]

				var name, value string
				if len(args) > 1 {
					name = args[1]
				}
				if len(args) > 3 {
					value = args[3]
				}

				switch name {
				case "Depth":
					if n, err := strconv.Atoi(value); err == nil && n >= 0 {
						d.e.SetDepth(uint(n))
					}
				case "Noise":
					if n, err := strconv.Atoi(value); err == nil && n >= 0 {
						d.e.SetNoise(uint(n))
					}
				case "Hash":
					if mb, err := strconv.Atoi(value); err == nil && mb > 0 {
						d.perftCache = perft.NewCache(mb << 20 / 32)
					}
				}

			case "register":
				// * register
				//
				//	registration is not required by this engine; ignored.

			case "ucinewgame":
				// * ucinewgame
				//
				//	the next search will be on a different game or test position.

				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				// * position [fen <fenstring> | startpos ]  moves <move1> .... <movei>

				d.ensureInactive(ctx)

				if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
					// Continuation of game.

					moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
					for _, arg := range strings.Split(moves, " ") {
						if arg == "moves" || arg == "" {
							continue
						}

						if err := d.e.Move(ctx, arg); err != nil {
							logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
							return
						}
					}

					d.lastPosition = line
					break
				}

				// New position.

				position := fen.Initial
				if len(args) >= 7 && args[0] == "fen" {
					position = strings.Join(args[1:7], " ")
				}

				if err := d.e.Reset(ctx, position); err != nil {
					logw.Errorf(ctx, "Invalid position: %v", line)
					return
				}

				move := false
				for _, arg := range args {
					if arg == "moves" {
						move = true
						continue
					}
					if !move {
						continue
					}

					if err := d.e.Move(ctx, arg); err != nil {
						logw.Errorf(ctx, "Invalid position move '%v': %v: %v", arg, line, err)
						return
					}
				}
				d.lastPosition = line

			case "go":
				d.handleGo(ctx, args, line)

			case "stop":
				// * stop
				//
				//	stop calculating as soon as possible, sending the final
				//	"bestmove" once the search acknowledges the halt.

				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// * ponderhit
				//
				//	pondering is not implemented; ignored.

			case "quit":
				// * quit
				//
				//	quit the program as soon as possible

				return

			default:
				logw.Warningf(ctx, "Unknown command '%v': %v", cmd, args)
			}

		case pv := <-d.ponder:
			// * info
			//
			//	the engine wants to send infos to the GUI.

			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// handleGo dispatches "go", including the non-standard "go perft N" extension
// which runs the perft correctness oracle instead of a search and reports the
// leaf count via "info string", the way cmd/perft reports it on stdout.
func (d *Driver) handleGo(ctx context.Context, args []string, line string) {
	if len(args) == 2 && args[0] == "perft" {
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 0 {
			logw.Errorf(ctx, "Invalid perft depth: %v", line)
			return
		}

		pos, err := fen.Decode(d.e.Position())
		if err != nil {
			logw.Errorf(ctx, "Invalid position for perft: %v", err)
			return
		}

		start := time.Now()
		nodes := d.perftCache.Perft(pos, depth)
		d.out <- fmt.Sprintf("info string perft depth %v nodes %v time %v", depth, nodes, time.Since(start).Milliseconds())
		d.out <- "bestmove 0000"
		return
	}

	// * go
	//
	//	start calculating on the current position set up with the "position"
	//	command. See wbec-ridderkerk.nl for the full token grammar; only the
	//	subset below is honored, the rest (ponder, searchmoves, nodes, mate)
	//	is silently ignored.

	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	hasTC := false
	infinite := false
	timeout := time.Duration(0)

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "movestogo", "depth", "movetime":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				if n >= 0 {
					opt.DepthLimit = lang.Some(uint(n))
				}
			case "wtime":
				tc.White = time.Millisecond * time.Duration(n)
				hasTC = true
			case "btime":
				tc.Black = time.Millisecond * time.Duration(n)
				hasTC = true
			case "movestogo":
				tc.Moves = n
				hasTC = true
			case "movetime":
				timeout = time.Millisecond * time.Duration(n)
			}

		case "infinite":
			infinite = true

		default:
			// silently ignore anything not handled.
		}
	}
	if hasTC {
		opt.TimeControl = lang.Some(tc)
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	// Forward ponder info. Complete search if it ends, unless infinite.

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()

	// Enforce move time limit, if set.

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			_, _ = d.e.Halt(ctx)
		})
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		// * bestmove <move1> [ ponder <move2> ]
		//
		//	the engine has stopped searching and found the move <move> best in
		//	this position. A "bestmove" is required for every "go", even with
		//	no legal moves (checkmate or stalemate): send the null move.

		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 time 1242 nodes 2124 nps 34928 pv e2e4 e7e5 g1f3"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score*100)))
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, board.FormatMoves(pv.Moves, func(m board.Move) string { return m.String() }))
	}

	return strings.Join(parts, " ")
}
