package toml

import (
	"fmt"
	"strconv"
)

// Parser parses TOML tokens into a map[string]any
// Tables become map[string]any, arrays []any, integers int64, floats float64
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	root      map[string]any
	current   map[string]any // table being populated
}

// NewParser creates a parser over input
func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		root:  make(map[string]any),
	}
	p.nextToken()
	p.nextToken()
	p.current = p.root
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()

	// Skip comments automatically
	for p.peekToken.Type == TokenComment {
		p.peekToken = p.lexer.NextToken()
	}
}

// Parse consumes the whole document
func (p *Parser) Parse() (map[string]any, error) {
	for p.curToken.Type != TokenEOF {
		if p.curToken.Type == TokenNewline || p.curToken.Type == TokenComment {
			p.nextToken()
			continue
		}
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) parseStatement() error {
	switch p.curToken.Type {
	case TokenLBracket:
		return p.parseTableHeader()
	case TokenIdent, TokenString, TokenInteger, TokenBool:
		if err := p.parseKeyValue(p.current); err != nil {
			return err
		}
		return p.expectLineEnd()
	case TokenError:
		return fmt.Errorf("lexing error line %d: %s", p.curToken.Line, p.curToken.Literal)
	default:
		return fmt.Errorf("unexpected token line %d: %s", p.curToken.Line, p.curToken.String())
	}
}

// parseTableHeader handles [a.b]
func (p *Parser) parseTableHeader() error {
	line := p.curToken.Line
	p.nextToken() // consume [
	if p.curToken.Type == TokenLBracket {
		return fmt.Errorf("line %d: arrays of tables are not supported", line)
	}

	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenRBracket {
		return fmt.Errorf("expected closing bracket for table at line %d", line)
	}
	p.nextToken() // consume ]

	table, err := descend(p.root, keys)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	p.current = table
	return p.expectLineEnd()
}

// parseKeyParts reads a possibly dotted key
func (p *Parser) parseKeyParts() ([]string, error) {
	var keys []string
	for {
		switch p.curToken.Type {
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			keys = append(keys, p.curToken.Literal)
		default:
			return nil, fmt.Errorf("expected key at line %d, got %s", p.curToken.Line, p.curToken.String())
		}
		p.nextToken()
		if p.curToken.Type != TokenDot {
			return keys, nil
		}
		p.nextToken() // consume .
	}
}

func (p *Parser) parseKeyValue(table map[string]any) error {
	line := p.curToken.Line
	keys, err := p.parseKeyParts()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenEqual {
		return fmt.Errorf("expected = after key at line %d", line)
	}
	p.nextToken() // consume =

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	target, err := descend(table, keys[:len(keys)-1])
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	last := keys[len(keys)-1]
	if _, exists := target[last]; exists {
		return fmt.Errorf("line %d: duplicate key %q", line, last)
	}
	target[last] = value
	return nil
}

func (p *Parser) parseValue() (any, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenString:
		p.nextToken()
		return tok.Literal, nil
	case TokenInteger:
		p.nextToken()
		return strconv.ParseInt(tok.Literal, 10, 64)
	case TokenFloat:
		p.nextToken()
		return strconv.ParseFloat(tok.Literal, 64)
	case TokenBool:
		p.nextToken()
		return tok.Literal == "true", nil
	case TokenLBracket:
		return p.parseArray()
	case TokenError:
		return nil, fmt.Errorf("lexing error line %d: %s", tok.Line, tok.Literal)
	}
	return nil, fmt.Errorf("unexpected value at line %d: %s", tok.Line, tok.String())
}

// parseArray reads [v, v, ...]; newlines and a trailing comma are allowed
func (p *Parser) parseArray() (any, error) {
	line := p.curToken.Line
	p.nextToken() // consume [
	arr := []any{}
	for {
		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		if p.curToken.Type == TokenRBracket {
			p.nextToken()
			return arr, nil
		}
		if p.curToken.Type == TokenEOF {
			return nil, fmt.Errorf("unterminated array starting line %d", line)
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		switch p.curToken.Type {
		case TokenComma:
			p.nextToken()
		case TokenRBracket:
		case TokenEOF:
			return nil, fmt.Errorf("unterminated array starting line %d", line)
		default:
			return nil, fmt.Errorf("expected , or ] in array at line %d", p.curToken.Line)
		}
	}
}

func (p *Parser) expectLineEnd() error {
	switch p.curToken.Type {
	case TokenNewline:
		p.nextToken()
		return nil
	case TokenEOF:
		return nil
	}
	return fmt.Errorf("expected end of line at line %d, got %s", p.curToken.Line, p.curToken.String())
}

// descend walks or creates nested tables along keys
func descend(table map[string]any, keys []string) (map[string]any, error) {
	for _, key := range keys {
		next, exists := table[key]
		if !exists {
			child := make(map[string]any)
			table[key] = child
			table = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key path conflict: %s is not a table", key)
		}
		table = child
	}
	return table, nil
}
