// Package engine orchestrates game-playing logic: the current position,
// move application, and launching/halting a search over it. It is the one
// stateful layer between the stateless board/movegen core and the UCI
// driver.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/halvard/gauntlet/pkg/board/fen"
	"github.com/halvard/gauntlet/pkg/eval"
	"github.com/halvard/gauntlet/pkg/movegen"
	"github.com/halvard/gauntlet/pkg/search"
	"github.com/halvard/gauntlet/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by search
	// options if provided.
	Depth uint
	// Noise adds some millipawn randomness to the leaf evaluations.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, noise=%v}", o.Depth, o.Noise)
}

// Engine encapsulates game-playing logic, search and evaluation over a
// single current position.
type Engine struct {
	name, author string

	seed int64
	opts Options

	pos    board.Position
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithSeed configures the engine to use the given random seed for
// evaluation noise instead of the default seed of zero.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine starting at the standard initial position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
	}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.pos)
}

// Reset resets the engine to the position described in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, noise=%vcp", position, e.opts.Depth, e.opts.Noise/10)

	e.haltSearchIfActive(ctx)

	pos, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.pos = pos

	logw.Infof(ctx, "New position: %v", e.pos)
	return nil
}

// Move plays the given move, usually an opponent move, on the current
// position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	e.haltSearchIfActive(ctx)

	legal, err := movegen.LegalMoves(e.pos)
	if err != nil {
		return err
	}
	for _, m := range legal {
		if !candidate.Equals(m) {
			continue
		}

		e.pos = e.pos.Apply(m)

		logw.Infof(ctx, "Move %v: %v", m, e.pos)
		return nil
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

// Analyze launches a search over the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.pos, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	root := eval.Randomize(eval.Material{}, e.opts.Noise, e.seed)
	launcher := searchctl.Iterative{Root: search.Minimax{Eval: root}}

	handle, out := launcher.Launch(ctx, e.pos, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.pos, pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
