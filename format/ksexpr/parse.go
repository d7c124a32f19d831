package ksexpr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	// Eval evaluates the node. input is used to resolve identifiers, see Caller.
	Eval(input any) (any, error)
}

// Caller resolves identifiers. ns is set for ns::name lookups.
type Caller interface {
	KSExprCall(ns string, name string, args []any) (any, error)
}

type Literal struct {
	V any `json:"literal"`
}

type Ident struct {
	NS   string `json:"ns,omitempty"`
	Name string `json:"ident"`
}

type Prefix struct {
	Op   PrefixOp `json:"prefix"`
	Expr Node     `json:"expr"`
}

type Infix struct {
	Op    InfixOp `json:"infix"`
	Left  Node    `json:"left"`
	Right Node    `json:"right"`
}

type Ternary struct {
	Cond  Node `json:"cond"`
	True  Node `json:"true"`
	False Node `json:"false"`
}

// binding powers, higher binds tighter
const (
	bpTernary = 1
	bpOr      = 2
	bpAnd     = 3
	bpNot     = 4
	bpCompare = 5
	bpBOr     = 6
	bpBXor    = 7
	bpBAnd    = 8
	bpShift   = 9
	bpAdd     = 10
	bpMul     = 11
	bpPrefix  = 12
)

var infixOps = map[string]struct {
	op InfixOp
	bp int
}{
	"or":  {InfixOpOr, bpOr},
	"and": {InfixOpAnd, bpAnd},
	"==":  {InfixOpEQ, bpCompare},
	"!=":  {InfixOpNotEQ, bpCompare},
	"<":   {InfixOpLT, bpCompare},
	"<=":  {InfixOpLTEQ, bpCompare},
	">":   {InfixOpGT, bpCompare},
	">=":  {InfixOpGTEQ, bpCompare},
	"|":   {InfixOpBOr, bpBOr},
	"^":   {InfixOpBXor, bpBXor},
	"&":   {InfixOpBAnd, bpBAnd},
	"<<":  {InfixOpBSL, bpShift},
	">>":  {InfixOpBSR, bpShift},
	"+":   {InfixOpAdd, bpAdd},
	"-":   {InfixOpSub, bpAdd},
	"*":   {InfixOpMul, bpMul},
	"/":   {InfixOpDiv, bpMul},
	"%":   {InfixOpMod, bpMul},
}

type parser struct {
	tokens []LexToken
	pos    int
}

func (p *parser) peek() LexToken { return p.tokens[p.pos] }

func (p *parser) advance() LexToken {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t LexToken, format string, a ...any) error {
	return fmt.Errorf("%d: %s", t.Token.Span.Start, fmt.Sprintf(format, a...))
}

func (p *parser) expect(tt TokenType) (LexToken, error) {
	t := p.advance()
	if t.Type != tt {
		return t, p.errorf(t, "expected %s got %q", tt, t.Token.Str)
	}
	return t, nil
}

func parseInteger(s string) (any, error) {
	s = strings.ReplaceAll(s, "_", "")
	if i, err := strconv.ParseInt(s, 0, 0); err == nil {
		return Integer(i), nil
	}
	b, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return normalizeBigInt(b), nil
}

func (p *parser) primary() (Node, error) {
	t := p.advance()
	switch t.Type {
	case TokenError:
		return nil, t.Err
	case TokenInteger:
		v, err := parseInteger(t.Token.Str)
		if err != nil {
			return nil, p.errorf(t, "%s", err)
		}
		return &Literal{V: v}, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(t.Token.Str, "_", ""), 64)
		if err != nil {
			return nil, p.errorf(t, "invalid float %q", t.Token.Str)
		}
		return &Literal{V: Float(f)}, nil
	case TokenString:
		s := t.Token.Str
		if s[0] == '\'' {
			return &Literal{V: String(s[1 : len(s)-1])}, nil
		}
		us, err := strconv.Unquote(s)
		if err != nil {
			return nil, p.errorf(t, "invalid string %s", s)
		}
		return &Literal{V: String(us)}, nil
	case TokenLParen:
		n, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return n, nil
	case TokenOp:
		switch t.Token.Str {
		case "-":
			return p.prefix(PrefixOpNeg, bpPrefix)
		case "~":
			return p.prefix(PrefixOpBNot, bpPrefix)
		}
	case TokenIdent:
		switch t.Token.Str {
		case "true":
			return &Literal{V: Boolean(true)}, nil
		case "false":
			return &Literal{V: Boolean(false)}, nil
		case "not":
			return p.prefix(PrefixOpNot, bpNot)
		}
		if p.peek().Type == TokenNS {
			p.advance()
			nt, err := p.expect(TokenIdent)
			if err != nil {
				return nil, err
			}
			return &Ident{NS: t.Token.Str, Name: nt.Token.Str}, nil
		}
		return &Ident{Name: t.Token.Str}, nil
	}
	return nil, p.errorf(t, "unexpected %q", t.Token.Str)
}

func (p *parser) prefix(op PrefixOp, bp int) (Node, error) {
	n, err := p.expr(bp)
	if err != nil {
		return nil, err
	}
	return &Prefix{Op: op, Expr: n}, nil
}

// expr parses operators binding tighter than minBP.
func (p *parser) expr(minBP int) (Node, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		if t.Type == TokenQuestion {
			if bpTernary <= minBP {
				return left, nil
			}
			p.advance()
			tn, err := p.expr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			// right associative
			fn, err := p.expr(bpTernary - 1)
			if err != nil {
				return nil, err
			}
			left = &Ternary{Cond: left, True: tn, False: fn}
			continue
		}

		if t.Type != TokenOp && t.Type != TokenIdent {
			return left, nil
		}
		io, ok := infixOps[t.Token.Str]
		if !ok {
			if t.Type == TokenIdent {
				return nil, p.errorf(t, "unexpected %q", t.Token.Str)
			}
			return nil, p.errorf(t, "unexpected operator %q", t.Token.Str)
		}
		if io.bp <= minBP {
			return left, nil
		}
		p.advance()
		right, err := p.expr(io.bp)
		if err != nil {
			return nil, err
		}
		left = &Infix{Op: io.op, Left: left, Right: right}
	}
}

// Parse parses an expression.
func Parse(s string) (Node, error) {
	p := &parser{tokens: Lex(s)}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Type != TokenEOF {
		if t.Type == TokenError {
			return nil, t.Err
		}
		return nil, p.errorf(t, "unexpected %q", t.Token.Str)
	}
	return n, nil
}

func valueErr(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return nil
}

func (n *Literal) Eval(input any) (any, error) { return n.V, nil }

func (n *Ident) Eval(input any) (any, error) {
	switch i := input.(type) {
	case Caller:
		v, err := i.KSExprCall(n.NS, n.Name, nil)
		if err != nil {
			return nil, err
		}
		return ToValue(v), nil
	case map[string]any:
		if n.NS == "" {
			if v, ok := i[n.Name]; ok {
				return ToValue(v), nil
			}
		}
	}
	if n.NS != "" {
		return nil, fmt.Errorf("failed to lookup %s::%s", n.NS, n.Name)
	}
	return nil, fmt.Errorf("failed to lookup ident %s", n.Name)
}

func (n *Prefix) Eval(input any) (any, error) {
	v, err := n.Expr.Eval(input)
	if err != nil {
		return nil, err
	}
	r := prefixOpFn[n.Op](v)
	return r, valueErr(r)
}

func (n *Infix) Eval(input any) (any, error) {
	l, err := n.Left.Eval(input)
	if err != nil {
		return nil, err
	}

	// short circuit
	if b, ok := l.(Boolean); ok {
		if (n.Op == InfixOpAnd && !b) || (n.Op == InfixOpOr && b) {
			return b, nil
		}
	}

	r, err := n.Right.Eval(input)
	if err != nil {
		return nil, err
	}
	v := infixOpFn[n.Op](l, r)
	return v, valueErr(v)
}

func (n *Ternary) Eval(input any) (any, error) {
	c, err := n.Cond.Eval(input)
	if err != nil {
		return nil, err
	}
	b, ok := c.(Boolean)
	if !ok {
		return nil, fmt.Errorf("condition is not a boolean: %s", str(c))
	}
	if b {
		return n.True.Eval(input)
	}
	return n.False.Eval(input)
}
