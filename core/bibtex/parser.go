package bibtex

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax error and the 1-based line where it was detected.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type parser struct {
	src string
	pos int
}

// Parse reads a BibTeX document into a Library.
func Parse(data []byte) (*Library, error) {
	p := &parser{src: string(data)}
	lib := NewLibrary()

	for p.pos < len(p.src) {
		at := strings.IndexByte(p.src[p.pos:], '@')
		if at < 0 {
			p.addRaw(lib, p.src[p.pos:])
			break
		}
		p.addRaw(lib, p.src[p.pos:p.pos+at])
		p.pos += at

		block, err := p.block()
		if err != nil {
			return nil, err
		}
		lib.Blocks = append(lib.Blocks, block)
	}

	return lib, nil
}

func (p *parser) addRaw(lib *Library, text string) {
	if t := strings.TrimSpace(text); t != "" {
		lib.Blocks = append(lib.Blocks, Block{Raw: t})
	}
}

func (p *parser) block() (Block, error) {
	start := p.pos
	p.pos++ // '@'

	typ := p.ident()
	if typ == "" {
		return Block{}, p.errorf("expected entry type after '@'")
	}
	p.skipSpace()
	if p.pos >= len(p.src) || (p.src[p.pos] != '{' && p.src[p.pos] != '(') {
		return Block{}, p.errorf("expected '{' or '(' after @%s", typ)
	}

	closer := byte('}')
	if p.src[p.pos] == '(' {
		closer = ')'
	}

	switch strings.ToLower(typ) {
	case "comment", "string", "preamble":
		end, err := p.closing(p.pos+1, closer)
		if err != nil {
			return Block{}, err
		}
		p.pos = end + 1
		return Block{Raw: p.src[start:p.pos]}, nil
	}

	p.pos++
	entry, err := p.entry(typ, closer)
	if err != nil {
		return Block{}, err
	}
	return Block{Entry: entry}, nil
}

func (p *parser) entry(typ string, closer byte) (*Entry, error) {
	p.skipSpace()
	keyStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' && p.src[p.pos] != closer {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, p.errorf("unterminated @%s entry", typ)
	}

	key := strings.TrimSpace(p.src[keyStart:p.pos])
	if key == "" {
		return nil, p.errorf("missing citation key in @%s entry", typ)
	}
	if strings.ContainsAny(key, " \t\r\n={}\"") {
		return nil, p.errorf("invalid citation key %q", key)
	}

	entry := &Entry{Type: typ, Key: key}
	if p.src[p.pos] == closer {
		p.pos++
		return entry, nil
	}
	p.pos++ // ','

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated entry %q", key)
		}
		if p.src[p.pos] == closer {
			p.pos++
			return entry, nil
		}

		name := p.fieldName()
		if name == "" {
			return nil, p.errorf("expected field name in entry %q", key)
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '=' {
			return nil, p.errorf("expected '=' after field %q in entry %q", name, key)
		}
		p.pos++
		p.skipSpace()

		value, delim, err := p.value(closer)
		if err != nil {
			return nil, err
		}
		entry.Fields = append(entry.Fields, Field{Name: name, Value: value, Delim: delim})

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated entry %q", key)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return entry, nil
		default:
			return nil, p.errorf("unexpected %q after field %q in entry %q", p.src[p.pos], name, key)
		}
	}
}

// value reads a field value. Concatenations are returned as their raw expression.
func (p *parser) value(closer byte) (string, Delimiter, error) {
	start := p.pos
	v, delim, err := p.token(closer)
	if err != nil {
		return "", 0, err
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '#' {
		return v, delim, nil
	}
	for p.pos < len(p.src) && p.src[p.pos] == '#' {
		p.pos++
		p.skipSpace()
		if _, _, err := p.token(closer); err != nil {
			return "", 0, err
		}
		p.skipSpace()
	}
	return strings.TrimSpace(p.src[start:p.pos]), Bare, nil
}

func (p *parser) token(closer byte) (string, Delimiter, error) {
	if p.pos >= len(p.src) {
		return "", 0, p.errorf("unexpected end of input, expected a value")
	}

	switch p.src[p.pos] {
	case '{':
		end, err := p.closing(p.pos+1, '}')
		if err != nil {
			return "", 0, err
		}
		v := p.src[p.pos+1 : end]
		p.pos = end + 1
		return v, Braces, nil
	case '"':
		depth := 0
		for i := p.pos + 1; i < len(p.src); i++ {
			switch p.src[i] {
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					v := p.src[p.pos+1 : i]
					p.pos = i + 1
					return v, Quotes, nil
				}
			}
		}
		return "", 0, p.errorf("unterminated quoted value")
	default:
		start := p.pos
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if c == closer || strings.IndexByte(", \t\r\n#", c) >= 0 {
				break
			}
			p.pos++
		}
		if p.pos == start {
			return "", 0, p.errorf("empty field value")
		}
		return p.src[start:p.pos], Bare, nil
	}
}

// closing returns the index of closer at brace depth zero, scanning from 'from'.
func (p *parser) closing(from int, closer byte) (int, error) {
	depth := 0
	for i := from; i < len(p.src); i++ {
		c := p.src[i]
		switch {
		case c == closer && depth == 0:
			return i, nil
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	p.pos = len(p.src)
	return -1, p.errorf("unbalanced braces, missing %q", closer)
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) fieldName() string {
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n=,{}()\"#", p.src[p.pos]) < 0 {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	line := strings.Count(p.src[:min(p.pos, len(p.src))], "\n") + 1
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
