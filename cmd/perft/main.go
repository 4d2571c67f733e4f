// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/halvard/gauntlet/pkg/board/fen"
	"github.com/halvard/gauntlet/pkg/perft"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move, at the deepest depth")
	cacheMB  = flag.Int("hash", 0, "Transposition cache size in MB (zero disables caching)")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	pos, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	var cache *perft.Cache
	if *cacheMB > 0 {
		cache = perft.NewCache(*cacheMB << 20 / 32)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()

		var nodes uint64
		if cache != nil {
			nodes = cache.Perft(pos, i)
		} else {
			nodes = perft.Perft(pos, i)
		}
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", *position, i, nodes, duration.Microseconds()))

		if *divide && i == *depth {
			for m, count := range perft.Divide(pos, i) {
				println(fmt.Sprintf("%v: %v", m, count))
			}
		}
	}
}
