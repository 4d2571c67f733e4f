// Package movegen enumerates pseudo-legal and legal moves for a position and
// reduces over the resulting successors, serving both perft and the search
// layer from one generator.
package movegen

import (
	"errors"

	"github.com/halvard/gauntlet/pkg/board"
)

// ErrIllegalPosition is returned by LegalMoves when the side not to move
// already has its king attacked: the previous move was never legal, so
// enumerating successors is meaningless.
var ErrIllegalPosition = errors.New("illegal position: side not to move is in check")

// PseudoLegal produces every pseudo-legal move for the side to move: every
// piece move a human would consider before checking whether it leaves its
// own king in check, plus castling (which is checked fully at generation
// time, since its legality conditions are cheap and local).
func PseudoLegal(pos board.Position) []board.Move {
	turn := pos.Turn()
	var moves []board.Move

	genPawnMoves(pos, turn, &moves)
	for _, p := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		genOfficerMoves(pos, turn, p, &moves)
	}
	genCastling(pos, turn, &moves)

	return moves
}

// Legal filters PseudoLegal down to moves that do not leave the mover's own
// king in check. Most moves are resolved by the hintLegal fast path (not in
// check, mover not pinned, mover not the king, not an en-passant capture);
// the remainder fall through to make-and-reinspect.
func Legal(pos board.Position) []board.Move {
	aug := board.NewAugmentedPos(pos)
	turn := pos.Turn()

	candidates := PseudoLegal(pos)
	legal := make([]board.Move, 0, len(candidates))
	for _, m := range candidates {
		if hintLegal(pos, aug, m) {
			legal = append(legal, m)
			continue
		}
		if next := pos.Apply(m); !next.InCheck(turn) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves is the checked form of Legal: it returns the empty move set and
// ErrIllegalPosition if pos fails the entry invariant that the side not to
// move is not in check, and Legal's result otherwise. Positions built through
// board.NewPosition already uphold the invariant, so this guards callers that
// apply externally-supplied moves.
func LegalMoves(pos board.Position) ([]board.Move, error) {
	if pos.InCheck(pos.Turn().Opponent()) {
		return nil, ErrIllegalPosition
	}
	return Legal(pos), nil
}

// hintLegal reports whether m can be trusted without a make-and-reinspect
// check: castling moves verify their own legality during generation, and an
// ordinary move by a non-king, non-pinned piece can't expose its own king
// unless the side to move was already in check. En-passant captures can
// uncover a check along the fourth/fifth rank even when the capturing pawn
// itself is not pinned, so they are never fast-pathed.
func hintLegal(pos board.Position, aug board.AugmentedPos, m board.Move) bool {
	if m.Kind != board.Normal {
		return true
	}
	if aug.IsCheck() {
		return false
	}
	if m.Piece == board.King {
		return false
	}
	if m.Piece == board.Pawn && isEnPassant(pos, m) {
		return false
	}
	return !aug.Pinned().IsSet(m.From)
}

func isEnPassant(pos board.Position, m board.Move) bool {
	ep, ok := pos.EnPassant()
	return ok && m.To == ep && m.From.File() != m.To.File()
}

func genPawnMoves(pos board.Position, turn board.Color, moves *[]board.Move) {
	occ := pos.Occupancy()
	oppOcc := pos.Side(turn.Opponent()).Occupancy()
	startRank := board.Rank2
	step := 8
	if turn == board.Black {
		startRank = board.Rank7
		step = -8
	}

	for bb := pos.Side(turn).Board(board.Pawn); bb != 0; {
		var from board.Square
		from, bb = bb.Next()

		to := board.Square(int(from) + step)
		if to.IsValid() && !occ.IsSet(to) {
			addPawnAdvance(from, to, turn, moves)
			if from.Rank() == startRank {
				to2 := board.Square(int(from) + 2*step)
				if !occ.IsSet(to2) {
					*moves = append(*moves, board.Move{Piece: board.Pawn, From: from, To: to2, Promotion: board.NoPiece})
				}
			}
		}

		for attacks := board.PawnAttackboard(turn, from); attacks != 0; {
			var cap board.Square
			cap, attacks = attacks.Next()
			if oppOcc.IsSet(cap) {
				addPawnAdvance(from, cap, turn, moves)
			} else if ep, ok := pos.EnPassant(); ok && cap == ep {
				*moves = append(*moves, board.Move{Piece: board.Pawn, From: from, To: cap, Promotion: board.NoPiece})
			}
		}
	}
}

func addPawnAdvance(from, to board.Square, turn board.Color, moves *[]board.Move) {
	if board.PawnPromotionRank(turn).IsSet(to) {
		for _, promo := range [...]board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight} {
			*moves = append(*moves, board.Move{Piece: board.Pawn, From: from, To: to, Promotion: promo})
		}
		return
	}
	*moves = append(*moves, board.Move{Piece: board.Pawn, From: from, To: to, Promotion: board.NoPiece})
}

func genOfficerMoves(pos board.Position, turn board.Color, piece board.Piece, moves *[]board.Move) {
	own := pos.Side(turn)
	occ := pos.Occupancy()

	for bb := own.Board(piece); bb != 0; {
		var from board.Square
		from, bb = bb.Next()

		for targets := board.Attackboard(piece, from, occ) &^ own.Occupancy(); targets != 0; {
			var to board.Square
			to, targets = targets.Next()
			*moves = append(*moves, board.Move{Piece: piece, From: from, To: to, Promotion: board.NoPiece})
		}
	}
}

func genCastling(pos board.Position, turn board.Color, moves *[]board.Move) {
	occ := pos.Occupancy()
	opp := turn.Opponent()

	rights := [...]struct {
		right board.Castling
		kind  board.MoveKind
	}{
		{board.KingSideRight(turn), board.CastleKingSide},
		{board.QueenSideRight(turn), board.CastleQueenSide},
	}

	for _, r := range rights {
		if !pos.Castling().IsAllowed(r.right) {
			continue
		}
		home := board.Home(r.right)
		if occ&home.Empty != 0 {
			continue
		}

		attacked := false
		for t := home.Transit; t != 0; {
			var sq board.Square
			sq, t = t.Next()
			if pos.IsAttacked(opp, sq) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		*moves = append(*moves, board.Move{
			Kind: r.kind, Piece: board.King,
			From: home.KingFrom, To: home.KingTo, Promotion: board.NoPiece,
		})
	}
}

// Reduce streams every legal successor of pos through task and folds the
// results with combine, starting from zero. It is the closure-pair face of
// the reducer pattern (Legal is the vector-returning one): since Position.Apply already hands back a fresh,
// independently-owned copy, there is no working position to mutate in place
// and restore, so task simply receives each successor by value.
func Reduce[R any](pos board.Position, task func(board.Position, board.Move) R, combine func(R, R) R, zero R) R {
	acc := zero
	for _, m := range Legal(pos) {
		acc = combine(acc, task(pos.Apply(m), m))
	}
	return acc
}
