package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/model"
	"github.com/kavanlund/heapsnap/internal/snapshot/parse"
	"github.com/kavanlund/heapsnap/internal/snapshot/progress"
	"github.com/kavanlund/heapsnap/internal/snapshot/session"
	"github.com/kavanlund/heapsnap/utils"
)

var (
	verboseFlag  bool
	progressFlag bool
)

// installCancelSignal wires SIGINT/SIGTERM into tok.Cancel and returns a
// cleanup func that stops watching the signal channel.
func installCancelSignal(tok *cancel.Token) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-ch; ok {
			tok.Cancel()
		}
	}()
	return func() { signal.Stop(ch) }
}

// progressSink renders coarse milestones to stderr when --progress is set.
// Disabled entirely (nil) when the flag is false, so the core never pays
// for formatting work nobody asked for.
func progressSink() progress.Sink {
	if !progressFlag {
		return nil
	}
	return func(ev progress.Event) {
		if ev.Total > 0 {
			fmt.Fprintf(os.Stderr, "%s: %d/%d %s\n", ev.Stage, ev.Done, ev.Total, ev.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %d %s\n", ev.Stage, ev.Done, ev.Message)
		}
	}
}

// loadSnapshot opens path, parses it into a session.Session, and logs
// load stats via slog when --verbose is set.
func loadSnapshot(path string, tok *cancel.Token) (*session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	started := time.Now()
	raw, err := parse.Read(f, parse.Options{Cancel: tok, Progress: progressSink()})
	if err != nil {
		return nil, err
	}

	if verboseFlag {
		slog.Info("loaded snapshot",
			"nodes", raw.NodeCount(),
			"edges", raw.EdgeCount(),
			"strings", len(raw.Strings),
			"parse_elapsed", utils.FormatDuration(time.Since(started)),
			"approx_memory", memoryEstimate(raw))
	}

	return session.New(raw, tok, nil), nil
}

func memoryEstimate(raw *model.SnapshotRaw) string {
	n := utils.MemorySize(8 * int64(len(raw.Nodes)+len(raw.Edges)))
	return n.String()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "verbose logging (may include object names and strings)")
	rootCmd.PersistentFlags().BoolVar(&progressFlag, "progress", true, "report coarse progress to stderr")
}
