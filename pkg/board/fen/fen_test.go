package fen_test

import (
	"testing"

	"github.com/halvard/gauntlet/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
	}

	for _, tt := range tests {
		p, err := fen.Decode(tt)
		require.NoError(t, err)

		assert.Equal(t, tt, fen.Encode(p))
	}
}

func TestDecodeDefaultsMissingClocks(t *testing.T) {
	// The halfmove clock and fullmove number may be omitted; they default
	// to 0 and 1 respectively.
	tests := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
	}

	for _, tt := range tests {
		p, err := fen.Decode(tt)
		require.NoError(t, err)

		assert.Equal(t, fen.Initial, fen.Encode(p))
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKzNR w KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w - - 0 1",
	}

	for _, tt := range tests {
		_, err := fen.Decode(tt)
		assert.Error(t, err)
	}
}
