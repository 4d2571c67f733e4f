// gauntlet is a simple UCI chess engine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/halvard/gauntlet/pkg/engine"
	"github.com/halvard/gauntlet/pkg/engine/uci"
	"github.com/seekerror/logw"
)

var (
	depth = flag.Int("depth", 6, "Default search depth limit (zero for unbounded, time-controlled only)")
	noise = flag.Int("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: gauntlet [options]

gauntlet is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "gauntlet", "halvard", engine.WithOptions(engine.Options{
		Depth: uint(*depth),
		Noise: uint(*noise),
	}), engine.WithSeed(time.Now().UnixNano()))

	in := readLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go writeLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

// readLines pumps stdin lines into a channel, closed on EOF. Async.
func readLines(ctx context.Context) <-chan string {
	ret := make(chan string, 1)
	go func() {
		defer close(ret)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			logw.Debugf(ctx, "<< %v", scanner.Text())
			ret <- scanner.Text()
		}
	}()
	return ret
}

// writeLines drains the driver's output channel to stdout.
func writeLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		_, _ = fmt.Fprintln(os.Stdout, line)
	}
}
