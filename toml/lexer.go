package toml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer splits a TOML document into tokens
// Supported: bare and quoted keys, basic and literal strings, integers,
// floats, booleans, arrays, [table] headers, comments
type Lexer struct {
	input []byte
	pos   int
	line  int
}

// NewLexer creates a lexer over input
func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()
	switch ch {
	case '\n':
		l.advance()
		tok := l.newToken(TokenNewline, "\n")
		l.line++
		return tok
	case '#':
		return l.readComment()
	case '=':
		l.advance()
		return l.newToken(TokenEqual, "=")
	case '.':
		l.advance()
		return l.newToken(TokenDot, ".")
	case ',':
		l.advance()
		return l.newToken(TokenComma, ",")
	case '[':
		l.advance()
		return l.newToken(TokenLBracket, "[")
	case ']':
		l.advance()
		return l.newToken(TokenRBracket, "]")
	case '"':
		return l.readBasicString()
	case '\'':
		return l.readLiteralString()
	}

	if isBareChar(ch) || ch == '+' {
		return l.readBareOrNumber()
	}

	l.advance()
	return l.newToken(TokenError, fmt.Sprintf("unexpected character: %c", ch))
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.line}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readComment() Token {
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.newToken(TokenComment, string(l.input[start:l.pos]))
}

func (l *Lexer) readBasicString() Token {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.newToken(TokenError, "unterminated string")
		}
		ch := l.advance()
		switch ch {
		case '"':
			return l.newToken(TokenString, sb.String())
		case '\n':
			return l.newToken(TokenError, "newline in string")
		case '\\':
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"', '\\':
				sb.WriteRune(esc)
			case 'u':
				if l.pos+4 > len(l.input) {
					return l.newToken(TokenError, "short unicode escape")
				}
				code, err := strconv.ParseUint(string(l.input[l.pos:l.pos+4]), 16, 32)
				if err != nil {
					return l.newToken(TokenError, "invalid unicode escape")
				}
				l.pos += 4
				sb.WriteRune(rune(code))
			default:
				return l.newToken(TokenError, fmt.Sprintf("invalid escape: \\%c", esc))
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *Lexer) readLiteralString() Token {
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\'':
			lit := string(l.input[start:l.pos])
			l.advance()
			return l.newToken(TokenString, lit)
		case '\n':
			return l.newToken(TokenError, "newline in string")
		}
		l.advance()
	}
	return l.newToken(TokenError, "unterminated string")
}

// readBareOrNumber reads up to a delimiter and classifies the word
// Dots only continue a word when it already looks numeric, so a.b stays a dotted key
func (l *Lexer) readBareOrNumber() Token {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.peek()
		if isBareChar(ch) || ch == '+' {
			l.advance()
			continue
		}
		if ch == '.' && looksNumeric(string(l.input[start:l.pos])) {
			l.advance()
			continue
		}
		break
	}
	word := string(l.input[start:l.pos])

	switch {
	case word == "true" || word == "false":
		return l.newToken(TokenBool, word)
	case isInteger(word):
		return l.newToken(TokenInteger, strings.ReplaceAll(word, "_", ""))
	case isFloat(word):
		return l.newToken(TokenFloat, strings.ReplaceAll(word, "_", ""))
	case strings.HasPrefix(word, "+"):
		return l.newToken(TokenError, fmt.Sprintf("invalid value: %s", word))
	}
	return l.newToken(TokenIdent, word)
}

func isBareChar(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_' || ch == '-'
}

func looksNumeric(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	return err == nil
}
