package ksexpr

import (
	"fmt"
	"strings"
)

type Span struct {
	Start int
	Stop  int
}

type Token struct {
	Str  string
	Span Span
}

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError
	TokenInteger
	TokenFloat
	TokenString
	TokenIdent
	TokenOp
	TokenLParen
	TokenRParen
	TokenQuestion
	TokenColon
	TokenNS
)

var tokenTypeNames = map[TokenType]string{
	TokenEOF:      "eof",
	TokenError:    "error",
	TokenInteger:  "integer",
	TokenFloat:    "float",
	TokenString:   "string",
	TokenIdent:    "ident",
	TokenOp:       "op",
	TokenLParen:   "lparen",
	TokenRParen:   "rparen",
	TokenQuestion: "question",
	TokenColon:    "colon",
	TokenNS:       "ns",
}

func (t TokenType) String() string { return tokenTypeNames[t] }

type LexToken struct {
	Name  string
	Type  TokenType
	Token Token
	Err   error
}

// longest first
var operators = []string{
	"<<", ">>", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "%", "<", ">", "&", "|", "^", "~",
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdent(c byte) bool      { return isIdentStart(c) || isDigit(c) }
func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isNumberChar(c byte) bool {
	return isDigit(c) || c == '_' || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == 'x' || c == 'X' || c == 'o' || c == 'O'
}

type lexer struct {
	s   string
	pos int
}

func (l *lexer) token(tt TokenType, start int) LexToken {
	return LexToken{
		Name:  tt.String(),
		Type:  tt,
		Token: Token{Str: l.s[start:l.pos], Span: Span{Start: start, Stop: l.pos}},
	}
}

func (l *lexer) errorf(start int, format string, a ...any) LexToken {
	t := l.token(TokenError, start)
	t.Err = fmt.Errorf("%d: "+format, append([]any{start}, a...)...)
	return t
}

func (l *lexer) number(start int) LexToken {
	s := l.s
	if strings.HasPrefix(s[l.pos:], "0x") || strings.HasPrefix(s[l.pos:], "0X") ||
		strings.HasPrefix(s[l.pos:], "0b") || strings.HasPrefix(s[l.pos:], "0B") ||
		strings.HasPrefix(s[l.pos:], "0o") || strings.HasPrefix(s[l.pos:], "0O") {
		l.pos += 2
		for l.pos < len(s) && isNumberChar(s[l.pos]) {
			l.pos++
		}
		return l.token(TokenInteger, start)
	}

	tt := TokenInteger
	for l.pos < len(s) && (isDigit(s[l.pos]) || s[l.pos] == '_') {
		l.pos++
	}
	if l.pos+1 < len(s) && s[l.pos] == '.' && isDigit(s[l.pos+1]) {
		tt = TokenFloat
		l.pos++
		for l.pos < len(s) && (isDigit(s[l.pos]) || s[l.pos] == '_') {
			l.pos++
		}
	}
	if l.pos < len(s) && (s[l.pos] == 'e' || s[l.pos] == 'E') {
		p := l.pos + 1
		if p < len(s) && (s[p] == '+' || s[p] == '-') {
			p++
		}
		if p < len(s) && isDigit(s[p]) {
			tt = TokenFloat
			l.pos = p
			for l.pos < len(s) && isDigit(s[l.pos]) {
				l.pos++
			}
		}
	}
	if l.pos < len(s) && isIdentStart(s[l.pos]) {
		for l.pos < len(s) && isIdent(s[l.pos]) {
			l.pos++
		}
		return l.errorf(start, "invalid number %q", s[start:l.pos])
	}
	return l.token(tt, start)
}

func (l *lexer) str(start int) LexToken {
	q := l.s[l.pos]
	l.pos++
	for l.pos < len(l.s) {
		c := l.s[l.pos]
		if c == '\\' && q == '"' {
			l.pos += 2
			continue
		}
		l.pos++
		if c == q {
			return l.token(TokenString, start)
		}
	}
	return l.errorf(start, "unterminated string")
}

func (l *lexer) next() LexToken {
	s := l.s
	for l.pos < len(s) && isSpace(s[l.pos]) {
		l.pos++
	}
	start := l.pos
	if l.pos >= len(s) {
		return l.token(TokenEOF, start)
	}

	c := s[l.pos]
	switch {
	case isDigit(c):
		return l.number(start)
	case isIdentStart(c):
		for l.pos < len(s) && isIdent(s[l.pos]) {
			l.pos++
		}
		return l.token(TokenIdent, start)
	case c == '"' || c == '\'':
		return l.str(start)
	case c == '(':
		l.pos++
		return l.token(TokenLParen, start)
	case c == ')':
		l.pos++
		return l.token(TokenRParen, start)
	case c == '?':
		l.pos++
		return l.token(TokenQuestion, start)
	case c == ':':
		l.pos++
		if l.pos < len(s) && s[l.pos] == ':' {
			l.pos++
			return l.token(TokenNS, start)
		}
		return l.token(TokenColon, start)
	}

	for _, op := range operators {
		if strings.HasPrefix(s[l.pos:], op) {
			l.pos += len(op)
			return l.token(TokenOp, start)
		}
	}

	l.pos++
	return l.errorf(start, "unexpected character %q", c)
}

// Lex returns all tokens of s ending with an eof or error token.
func Lex(s string) []LexToken {
	l := &lexer{s: s}
	var ts []LexToken
	for {
		t := l.next()
		ts = append(ts, t)
		if t.Type == TokenEOF || t.Type == TokenError {
			return ts
		}
	}
}
