package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/gizbox-lang/gizbox/gizbox"
)

const historyFile = ".gizbox_history"

func cmdRepl(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	types := flags.String("types", "", "comma-separated extra type names")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, ok := loadConfig(stderr)
	if !ok {
		return 1
	}

	session := newReplSession(typeNames(cfg, *types))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(stdout, "gizbox %s. Type :help for commands.\n", gizbox.Version)
	for {
		line, err := ln.Prompt("gizbox> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(stdout)
				return 0
			}
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if session.eval(line, stdout) {
			return 0
		}
	}
}

// replSession holds the state of one interactive session.
type replSession struct {
	scanner *gizbox.Scanner
}

func newReplSession(names []string) *replSession {
	return &replSession{scanner: gizbox.NewScanner(names)}
}

// eval handles one input line and reports whether the session should end.
func (s *replSession) eval(line string, w io.Writer) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		s.scan(line, w)
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(w, `:types            list type names
:types A,B        replace type names
:calc <expr>      evaluate <literal> [<op> <literal>]
:tokens           list token categories
:quit             leave
anything else is scanned and its tokens printed`)
	case ":types":
		if rest != "" {
			var names []string
			for _, n := range strings.Split(rest, ",") {
				if n = strings.TrimSpace(n); n != "" {
					names = append(names, n)
				}
			}
			s.scanner.SetTypeNames(names)
		}
		fmt.Fprintln(w, strings.Join(s.scanner.TypeNames(), " "))
	case ":calc":
		res, err := gizbox.Calc(rest)
		if err != nil {
			fmt.Fprintln(w, gizbox.CalcDiagnostic(err).String())
			return false
		}
		fmt.Fprintf(w, "%s : %s\n", res.Value, res.Type)
	case ":tokens":
		fmt.Fprintln(w, strings.Join(gizbox.TokenNames(), " "))
	default:
		fmt.Fprintf(w, "unknown command %s (try :help)\n", cmd)
	}
	return false
}

func (s *replSession) scan(src string, w io.Writer) {
	r := s.scanner.Scan("", src)
	parts := make([]string, len(r.Tokens))
	for i, tok := range r.Tokens {
		parts[i] = tok.String()
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, strings.Join(parts, " "))
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, d.String())
	}
}
