package board_test

import (
	"testing"

	"github.com/halvard/gauntlet/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initial(t *testing.T) board.Position {
	pieces := []board.Placement{
		{board.A1, board.White, board.Rook}, {board.B1, board.White, board.Knight},
		{board.C1, board.White, board.Bishop}, {board.D1, board.White, board.Queen},
		{board.E1, board.White, board.King}, {board.F1, board.White, board.Bishop},
		{board.G1, board.White, board.Knight}, {board.H1, board.White, board.Rook},
		{board.A8, board.Black, board.Rook}, {board.B8, board.Black, board.Knight},
		{board.C8, board.Black, board.Bishop}, {board.D8, board.Black, board.Queen},
		{board.E8, board.Black, board.King}, {board.F8, board.Black, board.Bishop},
		{board.G8, board.Black, board.Knight}, {board.H8, board.Black, board.Rook},
	}
	for f := board.ZeroFile; f < board.NumFiles; f++ {
		pieces = append(pieces,
			board.Placement{Square: board.NewSquare(f, board.Rank2), Color: board.White, Piece: board.Pawn},
			board.Placement{Square: board.NewSquare(f, board.Rank7), Color: board.Black, Piece: board.Pawn},
		)
	}

	pos, err := board.NewPosition(pieces, board.FullCastingRights, board.ZeroSquare, false, 0, 0)
	require.NoError(t, err)
	return pos
}

func TestNewPositionInvariants(t *testing.T) {
	kings := []board.Placement{
		{board.E1, board.White, board.King},
		{board.E8, board.Black, board.King},
	}

	t.Run("valid", func(t *testing.T) {
		_, err := board.NewPosition(kings, board.ZeroCastling, board.ZeroSquare, false, 0, 0)
		assert.NoError(t, err)
	})

	t.Run("missing king", func(t *testing.T) {
		_, err := board.NewPosition([]board.Placement{{board.E1, board.White, board.King}}, 0, 0, false, 0, 0)
		assert.Error(t, err)
	})

	t.Run("two kings one side", func(t *testing.T) {
		pieces := append(append([]board.Placement{}, kings...), board.Placement{board.A1, board.White, board.King})
		_, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
		assert.Error(t, err)
	})

	t.Run("double occupied square", func(t *testing.T) {
		pieces := append(append([]board.Placement{}, kings...), board.Placement{board.E1, board.White, board.Queen})
		_, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
		assert.Error(t, err)
	})

	t.Run("pawn on back rank", func(t *testing.T) {
		pieces := append(append([]board.Placement{}, kings...), board.Placement{board.A1, board.White, board.Pawn})
		_, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
		assert.Error(t, err)
	})

	t.Run("invalid en passant rank", func(t *testing.T) {
		_, err := board.NewPosition(kings, 0, board.E4, true, 0, 0)
		assert.Error(t, err)
	})

	t.Run("side not to move in check", func(t *testing.T) {
		// White to move (halfMoveCount even), but the white rook on e4 holds
		// the black king on e8 in check: black just moved, so this is an
		// illegal position.
		pieces := append(append([]board.Placement{}, kings...), board.Placement{board.E4, board.White, board.Rook})
		_, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
		assert.Error(t, err)
	})
}

func TestApplyQuietMove(t *testing.T) {
	pos := initial(t)
	before := pos.Hash()

	next := pos.Apply(board.Move{Piece: board.Pawn, From: board.E2, To: board.E4})

	assert.Equal(t, board.Black, next.Turn())
	assert.NotEqual(t, before, next.Hash())
	c, p, ok := next.Square(board.E4)
	require.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Pawn, p)

	_, _, ok = next.Square(board.E2)
	assert.False(t, ok)

	ep, hasEP := next.EnPassant()
	assert.True(t, hasEP)
	assert.Equal(t, board.E3, ep)

	assert.Equal(t, pos, initial(t), "Apply must not mutate the receiver")
}

func TestApplyCapture(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.E8, board.Black, board.King},
		{board.D4, board.White, board.Queen}, {board.D5, board.Black, board.Pawn},
	}
	pos, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
	require.NoError(t, err)

	next := pos.Apply(board.Move{Piece: board.Queen, From: board.D4, To: board.D5})

	c, p, ok := next.Square(board.D5)
	require.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Queen, p)
	assert.Equal(t, uint16(0), next.NoProgress())
}

func TestApplyEnPassant(t *testing.T) {
	// White just played d2-d4; black's pawn on e4 may capture en passant to d3.
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.E8, board.Black, board.King},
		{board.D4, board.White, board.Pawn}, {board.E4, board.Black, board.Pawn},
	}
	pos, err := board.NewPosition(pieces, 0, board.D3, true, 1, 0)
	require.NoError(t, err)
	require.Equal(t, board.Black, pos.Turn())

	next := pos.Apply(board.Move{Piece: board.Pawn, From: board.E4, To: board.D3})

	_, _, ok := next.Square(board.D4)
	assert.False(t, ok, "the captured white pawn must be removed")
	c, p, ok := next.Square(board.D3)
	require.True(t, ok)
	assert.Equal(t, board.Black, c)
	assert.Equal(t, board.Pawn, p)
}

func TestApplyPromotion(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.A8, board.Black, board.King},
		{board.D7, board.White, board.Pawn},
	}
	pos, err := board.NewPosition(pieces, 0, 0, false, 0, 0)
	require.NoError(t, err)

	next := pos.Apply(board.Move{Piece: board.Pawn, From: board.D7, To: board.D8, Promotion: board.Queen})

	c, p, ok := next.Square(board.D8)
	require.True(t, ok)
	assert.Equal(t, board.White, c)
	assert.Equal(t, board.Queen, p)
}

func TestApplyCastling(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.H1, board.White, board.Rook},
		{board.E8, board.Black, board.King},
	}
	pos, err := board.NewPosition(pieces, board.WhiteKingSideCastle|board.WhiteQueenSideCastle, 0, false, 0, 0)
	require.NoError(t, err)

	next := pos.Apply(board.Move{Kind: board.CastleKingSide, Piece: board.King, From: board.E1, To: board.G1})

	_, p, ok := next.Square(board.G1)
	require.True(t, ok)
	assert.Equal(t, board.King, p)
	_, p, ok = next.Square(board.F1)
	require.True(t, ok)
	assert.Equal(t, board.Rook, p)
	assert.False(t, next.Castling().IsAllowed(board.WhiteKingSideCastle))
	assert.False(t, next.Castling().IsAllowed(board.WhiteQueenSideCastle))
}

func TestApplyRookMoveStripsCastlingRights(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.H1, board.White, board.Rook},
		{board.E8, board.Black, board.King},
	}
	pos, err := board.NewPosition(pieces, board.WhiteKingSideCastle, 0, false, 0, 0)
	require.NoError(t, err)

	next := pos.Apply(board.Move{Piece: board.Rook, From: board.H1, To: board.H4})
	assert.False(t, next.Castling().IsAllowed(board.WhiteKingSideCastle))
}

func TestSafetyFeatureDistinguishesRights(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.E8, board.Black, board.King},
	}
	withRights, err := board.NewPosition(pieces, board.WhiteKingSideCastle, 0, false, 0, 0)
	require.NoError(t, err)
	withoutRights, err := board.NewPosition(pieces, board.ZeroCastling, 0, false, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, withRights.Hash(), withoutRights.Hash(), "piece-placement hash ignores castling rights")
	assert.NotEqual(t, withRights.SafetyFeature(), withoutRights.SafetyFeature())
}

func TestZobristStabilityAcrossApplySequence(t *testing.T) {
	// Knights out and back: the final position has the same pieces, rights
	// and mover as the initial one, so both the piece-placement hash and the
	// full safety feature must return to their starting values.
	pos := initial(t)

	p := pos
	for _, m := range []board.Move{
		{Piece: board.Knight, From: board.G1, To: board.F3},
		{Piece: board.Knight, From: board.G8, To: board.F6},
		{Piece: board.Knight, From: board.F3, To: board.G1},
		{Piece: board.Knight, From: board.F6, To: board.G8},
	} {
		p = p.Apply(m)
	}

	assert.Equal(t, pos.Hash(), p.Hash())
	assert.Equal(t, pos.SafetyFeature(), p.SafetyFeature())
}

func TestHashMatchesRecomputedZobrist(t *testing.T) {
	pos := initial(t).Apply(board.Move{Piece: board.Pawn, From: board.E2, To: board.E4})

	var want board.ZobristHash
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if c, p, ok := pos.Square(sq); ok {
			want ^= board.Default.PieceHash(c, p, sq)
		}
	}
	assert.Equal(t, want, pos.Hash())
}

func TestPieceSetPartitionInvariant(t *testing.T) {
	pos := initial(t).Apply(board.Move{Piece: board.Knight, From: board.B1, To: board.C3})

	for c := board.ZeroColor; c < board.NumColors; c++ {
		set := pos.Side(c)
		union := board.EmptyBitboard
		for p := board.ZeroPiece; p < board.NumPieces; p++ {
			bb := set.Board(p)
			assert.Equal(t, board.EmptyBitboard, union&bb, "piece bitboards must be pairwise disjoint")
			union |= bb
		}
		assert.Equal(t, set.Occupancy(), union)
	}
	assert.Equal(t, board.EmptyBitboard, pos.Side(board.White).Occupancy()&pos.Side(board.Black).Occupancy())
}

func TestInCheck(t *testing.T) {
	pieces := []board.Placement{
		{board.E1, board.White, board.King}, {board.E8, board.Black, board.King},
		{board.E4, board.White, board.Rook},
	}
	// It must be black to move: the side not to move can never be in check.
	pos, err := board.NewPosition(pieces, 0, 0, false, 1, 0)
	require.NoError(t, err)

	assert.True(t, pos.InCheck(board.Black))
	assert.False(t, pos.InCheck(board.White))
}
