package lexer

import "github.com/gizbox-lang/gizbox/internal/token"

// keywordWords are matched with one non-word character of trailing context.
var keywordWords = []string{
	"import", "using",

	"namespace", "extern", "const", "operator",

	"own", "bor", "var", "class",
	"void", "bool", "int", "long", "float", "double", "char", "string",
	"null",

	"capture", "leak", "sizeof", "typeof", "default",
}

// statementWords follow the separators in table order.
var statementWords = []string{
	"new", "delete", "while", "for", "if", "else", "break", "return", "this",
}

func keywordPatterns() []*Pattern {
	var ps []*Pattern
	for _, kw := range keywordWords {
		ps = append(ps, NewPattern(kw, kw+`\W`, 1))
	}

	// Separators are keyword-kind tokens without trailing context.
	ps = append(ps,
		NewPattern(",", `,`, 0),
		NewPattern(";", `;`, 0),
	)

	for _, kw := range statementWords {
		ps = append(ps, NewPattern(kw, kw+`\W`, 1))
	}
	return ps
}

// operatorPatterns are tried in order; the first match wins, so compound
// operators that share a prefix exclude each other through trailing context.
func operatorPatterns() []*Pattern {
	return []*Pattern{
		NewPattern("(", `\(`, 0),
		NewPattern(")", `\)`, 0),
		NewPattern("[", `\[`, 0),
		NewPattern("]", `\]`, 0),
		NewPattern("{", `\{`, 0),
		NewPattern("}", `\}`, 0),

		NewPattern("=", `=[^=]`, 1),
		NewPattern("+=", `\+=`, 0),
		NewPattern("-=", `-=`, 0),
		NewPattern("*=", `\*=`, 0),
		NewPattern("/=", `/=`, 0),
		NewPattern("%=", `%=`, 0),

		NewPattern("--", `--`, 0),
		NewPattern("++", `\+\+`, 0),

		NewPattern("==", `==[^=]`, 1),
		NewPattern("!=", `!=`, 0),
		NewPattern("<=", `<=`, 0),
		NewPattern(">=", `>=`, 0),
		// ">>" is two ">" tokens so nested generic arguments close cleanly.
		NewPattern(">", `>[^=]`, 1),
		NewPattern("<", `<[^=<]`, 1),
		NewPattern("+", `\+[^=+]`, 1),
		NewPattern("-", `-[^=-]`, 1),
		NewPattern("*", `\*[^=*]`, 1),
		NewPattern("/", `/[^=/]`, 1),
		NewPattern("%", `%[^=%]`, 1),

		NewPattern("||", `\|\|`, 0),
		NewPattern("&&", `&&`, 0),

		NewPattern("!", `![^=]`, 1),

		NewPattern(":", `:[^:]`, 1),

		NewPattern("?", `\?[^=]`, 1),

		NewPattern(".", `\.\w`, 1),
	}
}

func literalPatterns() []*Pattern {
	return []*Pattern{
		NewPattern(token.LitBool, `(true|false)[^A-Za-z0-9_]`, 1),
		NewPattern(token.LitInt, `[0-9]+[^0-9.Ll]`, 1),
		NewPattern(token.LitLong, `[0-9]+[Ll]\D`, 1),
		NewPattern(token.LitFloat, `[0-9]+\.[0-9]+[Ff]\D`, 1),
		NewPattern(token.LitDouble, `[0-9]+\.[0-9]+[Dd]?[^0-9FfDd.]`, 1),
		NewPattern(token.LitChar, `'[^']'[^']`, 1),
		NewPattern(token.LitString, `"[^"]*"[^"]`, 1),
	}
}

func identifierPattern() *Pattern {
	return NewPattern(token.ID, `[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*[^A-Za-z0-9_:]`, 1)
}

func whitespacePattern() *Pattern {
	return NewPattern("space", `\s+`, 0)
}

func commentPattern() *Pattern {
	return NewPattern("comment", `//.*\n`, 1)
}
