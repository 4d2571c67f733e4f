package perft_test

import (
	"fmt"
	"testing"

	"github.com/halvard/gauntlet/pkg/board/fen"
	"github.com/halvard/gauntlet/pkg/perft"
	"github.com/stretchr/testify/require"
)

// perftCase is one (FEN, depth -> expected leaf count) table row. The
// expected counts are the published reference values for these positions.
type perftCase struct {
	fen    string
	counts []uint64 // counts[i] is the expected leaf count at depth i+1
}

var cases = []perftCase{
	{
		fen:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		counts: []uint64{20, 400, 8902, 197281},
	},
	{
		fen:    "r3k2r/ppp2ppp/2n1bn2/2b1p3/4P3/2N2N2/PPPP1PPP/R1B1KB1R w KQkq - 0 1",
		counts: []uint64{30, 1449, 43690, 1983559},
	},
	{
		fen:    "k7/8/8/8/8/8/P7/7K w - - 0 1",
		counts: []uint64{5, 15, 96, 574, 4184, 23973, 181758, 1151913},
	},
	{
		fen:    "k7/8/8/8/8/8/N7/7K w - - 0 1",
		counts: []uint64{6, 18, 162, 932, 9116, 50004, 533415},
	},
	{
		fen:    "k7/8/8/8/8/8/B7/7K w - - 0 1",
		counts: []uint64{10, 29, 363, 1986, 26104, 140746, 1937534},
	},
	{
		fen:    "7k/P7/8/8/8/8/8/7K w - - 0 1",
		counts: []uint64{7},
	},
}

func TestPerftTable(t *testing.T) {
	for _, c := range cases {
		c := c
		t.Run(c.fen, func(t *testing.T) {
			pos, err := fen.Decode(c.fen)
			require.NoError(t, err)

			for i, want := range c.counts {
				depth := i + 1
				t.Run(fmt.Sprintf("depth=%v", depth), func(t *testing.T) {
					require.Equal(t, want, perft.Perft(pos, depth))
				})
			}
		})
	}
}

func TestPerftCachedAgreesWithPerft(t *testing.T) {
	pos, err := fen.Decode("r3k2r/ppp2ppp/2n1bn2/2b1p3/4P3/2N2N2/PPPP1PPP/R1B1KB1R w KQkq - 0 1")
	require.NoError(t, err)

	c := perft.NewCache(1 << 16)
	for depth := 1; depth <= 4; depth++ {
		require.Equal(t, perft.Perft(pos, depth), c.Perft(pos, depth))
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	div := perft.Divide(pos, 3)

	var sum uint64
	for _, n := range div {
		sum += n
	}
	require.Equal(t, perft.Perft(pos, 3), sum)
}
