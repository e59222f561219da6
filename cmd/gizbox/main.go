// Package main provides the Gizbox CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/gizbox-lang/gizbox/gizbox"
	"github.com/gizbox-lang/gizbox/internal/config"
	"github.com/gizbox-lang/gizbox/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "scan":
		return cmdScan(args, stdout, stderr)
	case "check":
		return cmdCheck(args, stdout, stderr)
	case "diff":
		return cmdDiff(args, stdout, stderr)
	case "repl":
		return cmdRepl(args, stdout, stderr)
	case "watch":
		return cmdWatch(args, stdout, stderr)
	case "serve":
		return cmdServe(args, stdout, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "gizbox version %s\n", gizbox.Version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Gizbox - language front end tools

Usage: gizbox <command> [arguments]

Commands:
  scan      Print the token stream of source files
  check     Scan source files and report diagnostics
  diff      Compare the token streams of two files
  repl      Scan lines interactively (:calc evaluates literals)
  watch     Rescan source files when they change
  serve     Start the dev inspector server
  version   Print version information
  help      Show this help message

Examples:
  gizbox scan main.gix
  gizbox scan -json -types Map,List main.gix
  gizbox check
  gizbox diff old.gix new.gix
  gizbox repl
  gizbox watch ./src
  gizbox serve`)
}

// loadConfig loads gizbox.toml from the working directory.
func loadConfig(stderr io.Writer) (*config.Config, bool) {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return nil, false
	}
	cfg.ResolveSecrets()
	return cfg, true
}

// typeNames merges the configured type names with a comma-separated flag.
func typeNames(cfg *config.Config, extra string) []string {
	names := cfg.TypeNames()
	for _, n := range strings.Split(extra, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func cmdScan(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("scan", flag.ContinueOnError)
	flags.SetOutput(stderr)
	asJSON := flags.Bool("json", false, "print results as JSON")
	types := flags.String("types", "", "comma-separated extra type names")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}

	files, err := sourceFiles(flags.Args(), cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no source files found")
		return 1
	}

	results := gizbox.Check(files, typeNames(cfg, *types))

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	} else {
		for _, r := range results {
			if len(results) > 1 {
				fmt.Fprintf(stdout, "== %s\n", r.Filename)
			}
			for _, tok := range r.Tokens {
				fmt.Fprintf(stdout, "%d:%d\t%s\n", tok.Line, tok.Column, tok)
			}
		}
	}

	return printDiagnostics(results, stderr)
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	flags.SetOutput(stderr)
	types := flags.String("types", "", "comma-separated extra type names")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}

	files, err := sourceFiles(flags.Args(), cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no source files found")
		return 1
	}

	results := gizbox.Check(files, typeNames(cfg, *types))
	if code := printDiagnostics(results, stderr); code != 0 {
		return code
	}

	tokens := 0
	for _, r := range results {
		tokens += len(r.Tokens)
	}
	fmt.Fprintf(stdout, "ok: %d files, %d tokens\n", len(results), tokens)
	return 0
}

func cmdDiff(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags.SetOutput(stderr)
	types := flags.String("types", "", "comma-separated extra type names")
	ctxLines := flags.Int("context", 3, "lines of context")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: gizbox diff [-types A,B] [-context N] <old> <new>")
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}

	results := gizbox.Check(flags.Args(), typeNames(cfg, *types))
	if code := printDiagnostics(results, stderr); code != 0 {
		return code
	}

	patch, err := tokenDiff(results[0], results[1], *ctxLines)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if patch == "" {
		return 0
	}
	fmt.Fprint(stdout, patch)
	return 1
}

// tokenDiff renders a unified diff of two token streams, one token per line.
// Positions are left out so that moved code with equal tokens compares equal.
func tokenDiff(a, b *gizbox.ScanResult, context int) (string, error) {
	u := difflib.UnifiedDiff{
		A:        tokenLines(a.Tokens),
		B:        tokenLines(b.Tokens),
		FromFile: a.Filename,
		ToFile:   b.Filename,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

func tokenLines(tokens []gizbox.Token) []string {
	lines := make([]string, len(tokens))
	for i, tok := range tokens {
		lines[i] = tok.String() + "\n"
	}
	return lines
}

func cmdServe(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	flags.SetOutput(stderr)
	addr := flags.String("addr", "", "listen address (overrides gizbox.toml)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := config.LogConfig{Level: cfg.Log.Level, Format: "json"}.NewLogger(stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, logger).Run(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// sourceFiles returns the files named in args, or every source file under
// the working directory when args is empty. Directories in args are walked.
func sourceFiles(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		return findSourceFiles(".", cfg)
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Let the scanner report unreadable files as diagnostics.
			files = append(files, arg)
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := findSourceFiles(arg, cfg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// findSourceFiles walks dir for files with a configured source extension,
// skipping hidden directories.
func findSourceFiles(dir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.HasSourceExt(path) {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	return files, err
}

// printDiagnostics writes every diagnostic and returns 1 if any is an error.
func printDiagnostics(results []*gizbox.ScanResult, stderr io.Writer) int {
	sum := gizbox.Summarize(results)
	for _, d := range sum.Diagnostics {
		fmt.Fprintln(stderr, d.String())
	}
	if sum.HasErrors() {
		return 1
	}
	return 0
}
