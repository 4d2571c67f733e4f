package board

import (
	"fmt"
	"strings"
)

// MoveKind distinguishes castling from every other move. Castling is
// generated and encoded as its own outcome variant -- never as a two-square
// king move that Apply has to reinterpret -- per the move-generation design.
type MoveKind uint8

const (
	Normal MoveKind = iota
	CastleKingSide
	CastleQueenSide
)

// Move represents a not-necessarily-legal move. For Normal moves, Piece is
// the moving piece kind and Promotion (if not NoPiece) the piece a pawn
// promotes to on reaching the back rank. For castling moves, Piece is King,
// From/To are the king's own two-square move, and Apply derives both the
// king's and the rook's relocation from Kind and the side to move via
// board.Home.
type Move struct {
	Kind      MoveKind
	Piece     Piece
	From, To  Square
	Promotion Piece
}

// ParseMove parses a move in pure algebraic coordinate notation, such as
// "a2a4" or "a7a8q". The parser has no board context, so Kind and Piece are
// left zero-valued (Normal, Pawn); matching the move against a generated
// legal move (which does carry Kind/Piece) is the caller's job, via Equals.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	m := Move{From: from, To: to, Promotion: NoPiece}
	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		m.Promotion = promo
	}
	return m, nil
}

// Equals compares moves by their external encoding (from/to/promotion),
// ignoring Kind/Piece: this is what lets a bare ParseMove result be matched
// against the richer move a generator produced for the same from/to/promo.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.Promotion != NoPiece && m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// FormatMoves renders a sequence of moves space-separated using format for
// each one.
func FormatMoves(moves []Move, format func(Move) string) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = format(m)
	}
	return strings.Join(parts, " ")
}
