package lexer

import (
	"fmt"
	"regexp"
)

// Pattern describes one lexical category.
//
// Rule must match the entire scan window. Many rules match one extra
// character of trailing context (to tell "=" from "==", or "123" from
// "123.0"); Back is the number of such characters, and it is trimmed from
// the recognized lexeme.
type Pattern struct {
	Name string
	Rule string
	Back int

	re *regexp.Regexp
}

// NewPattern compiles rule anchored at both ends. It panics if rule is not a
// valid regular expression; pattern tables are static.
func NewPattern(name, rule string, back int) *Pattern {
	if back < 0 {
		panic(fmt.Sprintf("lexer: pattern %q has negative back %d", name, back))
	}
	return &Pattern{
		Name: name,
		Rule: rule,
		Back: back,
		re:   regexp.MustCompile("^(?:" + rule + ")$"),
	}
}

// Match reports whether the whole window matches the rule.
func (p *Pattern) Match(window string) bool {
	return p.re.MatchString(window)
}

// Lexeme returns window with the trailing context trimmed.
func (p *Pattern) Lexeme(window string) string {
	return window[:len(window)-p.Back]
}
