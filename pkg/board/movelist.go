package board

import (
	"container/heap"
	"fmt"
)

// MovePriority ranks moves for visiting order: higher is visited first.
type MovePriority int16

// MoveList is a max-priority queue over a fixed set of moves. The search
// drains it to visit forcing moves (captures, promotions) before quiet ones.
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a list over moves, ranked by fn.
func NewMoveList(moves []Move, fn func(Move) MovePriority) *MoveList {
	h := moveHeap(make([]rankedMove, len(moves)))
	for i, m := range moves {
		h[i] = rankedMove{m: m, rank: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the highest-ranked remaining move.
func (ml *MoveList) Next() (Move, bool) {
	if ml.Size() == 0 {
		return Move{}, false
	}
	ret := heap.Pop(&ml.h).(rankedMove)
	return ret.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type rankedMove struct {
	m    Move
	rank MovePriority
}

type moveHeap []rankedMove

func (h moveHeap) Len() int {
	return len(h)
}

func (h moveHeap) Less(i, j int) bool {
	return h[i].rank > h[j].rank
}

func (h moveHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *moveHeap) Push(x interface{}) {
	panic("moves are fixed at construction")
}

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}
