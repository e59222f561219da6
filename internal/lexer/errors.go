package lexer

import (
	"errors"
	"fmt"

	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/token"
)

// ErrLexical is matched by every scan failure.
var ErrLexical = errors.New("lexical analysis error")

// Error reports input that no pattern could classify.
type Error struct {
	Line     int    // 1-indexed
	Column   int    // 0-indexed
	Fragment string // up to 10 characters of unconsumed input
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical analysis error at %d:%d near %q", e.Line, e.Column, e.Fragment)
}

// Is makes errors.Is(err, ErrLexical) hold.
func (e *Error) Is(target error) bool {
	return target == ErrLexical
}

// Position returns where scanning stopped.
func (e *Error) Position() token.Position {
	return token.Position{Line: e.Line, Column: e.Column}
}

// Code returns the diagnostic code for lexical errors.
func (e *Error) Code() string {
	return diag.ErrLexical
}
