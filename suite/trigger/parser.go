package trigger

import (
	"strings"
	"unicode"

	"github.com/BaSui01/suitekit/types"
)

// Parse parses trigger text into an expression tree. Empty or blank text
// yields a nil expression, meaning "no trigger". Errors are PARSE_ERROR
// values whose Column is the 1-based offset within text.
func Parse(text string) (*Expression, error) {
	src := strings.TrimSpace(text)
	if src == "" {
		return nil, nil
	}
	root, err := parseTokens(text, nil, false)
	if err != nil {
		return nil, err
	}
	return &Expression{Source: src, Root: root}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func parseTokens(text string, operands []Operand, placeholders bool) (Expr, error) {
	tokens, err := tokenize(text, placeholders)
	if err != nil {
		return nil, err
	}
	p := &exprParser{tokens: tokens, operands: operands, end: len([]rune(text)) + 1}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		return nil, types.NewParseError(0, t.col, "unexpected token %q in trigger", t.value)
	}
	if p.next != len(operands) {
		return nil, types.NewError(types.ErrParseError, "template operand count does not match placeholders")
	}
	return root, nil
}

// --- Token types ---

type tokenKind int

const (
	tkPath        tokenKind = iota // a/b, ../x, /s/f/t, complete
	tkPlaceholder                  // %s in a template format
	tkOp                           // ==, !=
	tkAnd                          // AND, &&
	tkOr                           // OR, ||
	tkLParen                       // (
	tkRParen                       // )
)

type token struct {
	kind  tokenKind
	value string
	col   int
}

// --- Tokenizer ---

func tokenize(expr string, placeholders bool) ([]token, error) {
	var tokens []token
	runes := []rune(expr)
	i := 0

	for i < len(runes) {
		ch := runes[i]
		col := i + 1

		if unicode.IsSpace(ch) {
			i++
			continue
		}

		if ch == '(' {
			tokens = append(tokens, token{tkLParen, "(", col})
			i++
			continue
		}
		if ch == ')' {
			tokens = append(tokens, token{tkRParen, ")", col})
			i++
			continue
		}

		if i+1 < len(runes) {
			switch two := string(runes[i : i+2]); two {
			case "==", "!=":
				tokens = append(tokens, token{tkOp, two, col})
				i += 2
				continue
			case "&&":
				tokens = append(tokens, token{tkAnd, two, col})
				i += 2
				continue
			case "||":
				tokens = append(tokens, token{tkOr, two, col})
				i += 2
				continue
			case "%s":
				if placeholders {
					tokens = append(tokens, token{tkPlaceholder, two, col})
					i += 2
					continue
				}
			}
		}

		if isPathPart(ch) {
			word, n := readPath(runes, i)
			switch word {
			case "AND":
				tokens = append(tokens, token{tkAnd, word, col})
			case "OR":
				tokens = append(tokens, token{tkOr, word, col})
			default:
				tokens = append(tokens, token{tkPath, word, col})
			}
			i = n
			continue
		}

		return nil, types.NewParseError(0, col, "unexpected character %q in trigger", string(ch))
	}

	return tokens, nil
}

func readPath(runes []rune, start int) (string, int) {
	i := start
	for i < len(runes) && isPathPart(runes[i]) {
		i++
	}
	return string(runes[start:i]), i
}

func isPathPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '.' || ch == '/'
}

func isStatusLiteral(s string) bool {
	for i, ch := range s {
		if i == 0 && !unicode.IsLetter(ch) {
			return false
		}
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return false
		}
	}
	return s != ""
}

// --- Recursive descent parser ---

type exprParser struct {
	tokens   []token
	pos      int
	operands []Operand
	next     int
	end      int
}

func (p *exprParser) peek() *token {
	if p.pos < len(p.tokens) {
		return &p.tokens[p.pos]
	}
	return nil
}

func (p *exprParser) advance() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// errorAt reports a parse error at the current token, or at end of input.
func (p *exprParser) errorAt(format string, args ...any) error {
	col := p.end
	if t := p.peek(); t != nil {
		col = t.col
	}
	return types.NewParseError(0, col, format, args...)
}

// parseOr handles the || / OR operator (lowest precedence).
func (p *exprParser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t == nil || t.kind != tkOr {
			return left, nil
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
}

// parseAnd handles the && / AND operator.
func (p *exprParser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t == nil || t.kind != tkAnd {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
}

// parseUnary handles parenthesised groups and comparisons.
func (p *exprParser) parseUnary() (Expr, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errorAt("unexpected end of trigger")
	}
	if t.kind != tkLParen {
		return p.parseComparison()
	}
	p.advance()
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t == nil || t.kind != tkRParen {
		return nil, p.errorAt("expected ')' in trigger")
	}
	p.advance()
	return &Group{Inner: inner}, nil
}

// parseComparison handles PATH (==|!=) STATUS.
func (p *exprParser) parseComparison() (Expr, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errorAt("unexpected end of trigger")
	}

	var operand Operand
	switch t.kind {
	case tkPath:
		operand.Path = p.advance().value
	case tkPlaceholder:
		p.advance()
		if p.next >= len(p.operands) {
			return nil, types.NewParseError(0, t.col, "template placeholder has no operand")
		}
		operand = p.operands[p.next]
		p.next++
	default:
		return nil, p.errorAt("expected path, got %q", t.value)
	}

	op := p.peek()
	if op == nil || op.kind != tkOp {
		return nil, p.errorAt("expected '==' or '!=' after %q", operand.Path)
	}
	p.advance()

	lit := p.peek()
	if lit == nil || lit.kind != tkPath || !isStatusLiteral(lit.value) {
		return nil, p.errorAt("expected status after %q", op.value)
	}
	p.advance()

	return &Comparison{
		Operand: operand,
		Op:      Operator(op.value),
		Literal: types.ParseStatus(lit.value),
	}, nil
}
