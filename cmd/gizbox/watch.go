package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gizbox-lang/gizbox/gizbox"
	"github.com/gizbox-lang/gizbox/internal/config"
	"github.com/gizbox-lang/gizbox/internal/server"
)

func cmdWatch(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.SetOutput(stderr)
	types := flags.String("types", "", "comma-separated extra type names")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}

	roots := flags.Args()
	if len(roots) == 0 {
		roots = cfg.Watch.Paths
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchSources(ctx, cfg, roots, typeNames(cfg, *types), stdout, stderr)
}

// watchSources scans every source file under roots, then rescans each file
// that changes until ctx is done.
func watchSources(ctx context.Context, cfg *config.Config, roots, names []string, stdout, stderr io.Writer) int {
	scanner := gizbox.NewScanner(names)
	out := &lockedWriter{w: stdout}
	errOut := &lockedWriter{w: stderr}

	report := func(path string) {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(out, "removed %s\n", path)
			return
		}
		r := scanner.ScanFile(path)
		if r.HasErrors {
			for _, d := range r.Diagnostics {
				fmt.Fprintln(errOut, d.String())
			}
			return
		}
		fmt.Fprintf(out, "ok %s (%d tokens)\n", path, len(r.Tokens))
	}

	for _, root := range roots {
		files, err := findSourceFiles(root, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		for _, f := range files {
			report(f)
		}
	}

	delay := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	watcher := server.NewSourceWatcher(roots, cfg.HasSourceExt, report, delay, cfg.Log.NewLogger(stderr))
	if err := watcher.Start(); err != nil {
		fmt.Fprintf(stderr, "error: failed to watch: %v\n", err)
		return 1
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "watching %d paths for changes (Ctrl+C to stop)\n", len(roots))
	<-ctx.Done()
	return 0
}

// lockedWriter serializes writes from watcher callbacks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
