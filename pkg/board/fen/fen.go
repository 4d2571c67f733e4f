// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/halvard/gauntlet/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode parses a FEN record into a Position. The active-color and
// fullmove-number fields are folded into the Position's own ply counter
// (halfMoveCount = 2*(fullmoves-1) + (0 if white to move else 1)), since
// Turn() is derived from that counter rather than stored separately.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (board.Position, error) {
	// A FEN record contains six whitespace-separated fields. The two
	// trailing clock fields are optional and default to a fresh count.

	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return board.Position{}, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}
	if len(parts) < 5 {
		parts = append(parts, "0")
	}
	if len(parts) < 6 {
		parts = append(parts, "1")
	}

	// (1) Piece placement (from white's perspective): rank 8 down to rank 1,
	// each rank described file a through file h.

	var pieces []board.Placement

	rank := board.Rank8
	file := board.ZeroFile
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			if file != board.NumFiles {
				return board.Position{}, fmt.Errorf("invalid rank length in FEN: '%v'", fen)
			}
			if rank == board.Rank1 {
				return board.Position{}, fmt.Errorf("too many ranks in FEN: '%v'", fen)
			}
			rank--
			file = board.ZeroFile

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8.
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			color, piece, ok := parsePiece(r)
			if !ok {
				return board.Position{}, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, fen)
			}
			if file >= board.NumFiles {
				return board.Position{}, fmt.Errorf("too many squares on rank in FEN: '%v'", fen)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++

		default:
			return board.Position{}, fmt.Errorf("invalid character in FEN: '%v'", fen)
		}
	}
	if rank != board.Rank1 || file != board.NumFiles {
		return board.Position{}, fmt.Errorf("invalid number of squares in FEN: '%v'", fen)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return board.Position{}, fmt.Errorf("invalid active color in FEN: '%v'", fen)
	}

	// (3) Castling availability.

	castling, ok := parseCastling(parts[2])
	if !ok {
		return board.Position{}, fmt.Errorf("invalid castling in FEN: '%v'", fen)
	}

	// (4) En passant target square.

	var ep board.Square
	hasEP := false
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return board.Position{}, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		ep = sq
		hasEP = true
	}

	// (5) Halfmove clock since the last pawn advance or capture.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return board.Position{}, fmt.Errorf("invalid halfmove in FEN: '%v'", fen)
	}

	// (6) Fullmove number, incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 1 {
		return board.Position{}, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	halfMoveCount := 2 * (fm - 1)
	if active == board.Black {
		halfMoveCount++
	}

	return board.NewPosition(pieces, castling, ep, hasEP, uint16(halfMoveCount), uint16(np))
}

// Encode renders pos in FEN notation.
func Encode(pos board.Position) string {
	var sb strings.Builder
	for rank := board.Rank8; ; rank-- {
		blanks := 0
		for file := board.ZeroFile; file < board.NumFiles; file++ {
			color, piece, ok := pos.Square(board.NewSquare(file, rank))
			if !ok {
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank == board.Rank1 {
			break
		}
		sb.WriteString("/")
	}

	turn := printColor(pos.Turn())
	castling := printCastling(pos.Castling())

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	fullmoves := int(pos.HalfMoveCount())/2 + 1
	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, pos.NoProgress(), fullmoves)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	switch r {
	case 'P':
		return board.White, board.Pawn, true
	case 'B':
		return board.White, board.Bishop, true
	case 'N':
		return board.White, board.Knight, true
	case 'R':
		return board.White, board.Rook, true
	case 'Q':
		return board.White, board.Queen, true
	case 'K':
		return board.White, board.King, true

	case 'p':
		return board.Black, board.Pawn, true
	case 'b':
		return board.Black, board.Bishop, true
	case 'n':
		return board.Black, board.Knight, true
	case 'r':
		return board.Black, board.Rook, true
	case 'q':
		return board.Black, board.Queen, true
	case 'k':
		return board.Black, board.King, true

	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	if c == board.White {
		switch p {
		case board.Pawn:
			return 'P'
		case board.Bishop:
			return 'B'
		case board.Knight:
			return 'N'
		case board.Rook:
			return 'R'
		case board.Queen:
			return 'Q'
		case board.King:
			return 'K'
		default:
			return '?'
		}
	}

	switch p {
	case board.Pawn:
		return 'p'
	case board.Bishop:
		return 'b'
	case board.Knight:
		return 'n'
	case board.Rook:
		return 'r'
	case board.Queen:
		return 'q'
	case board.King:
		return 'k'
	default:
		return '?'
	}
}
