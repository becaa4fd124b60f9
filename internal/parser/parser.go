// Package parser turns Rhizfile source text into an ast.Program.
//
// The grammar is a small s-expression language: a program is a sequence of
// parenthesized calls, a call holds calls, symbols and quoted text. Source
// positions are tracked as hcl.Pos values so errors can be rendered with the
// same diagnostic machinery HCL uses.
package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/rhiz/internal/ast"
)

// DefaultFilename is used by ParseString.
const DefaultFilename = "Rhizfile"

// Error describes malformed source text.
type Error struct {
	Range   hcl.Range
	Summary string
	Detail  string
}

// Error renders the location followed by the summary and detail, matching
// the format of hcl.Diagnostic.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s; %s", e.Range, e.Summary, e.Detail)
}

// Diagnostics converts the error for hcl's diagnostic writers.
func (e *Error) Diagnostics() hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  e.Summary,
		Detail:   e.Detail,
		Subject:  e.Range.Ptr(),
	}}
}

// Parse parses a whole source file. On failure the returned error is a
// *Error and no partial program is returned.
func Parse(src []byte, filename string) (*ast.Program, error) {
	p := &parser{
		src:      src,
		filename: filename,
		pos:      hcl.InitialPos,
	}
	return p.parseProgram()
}

// ParseString parses text using DefaultFilename for source ranges.
func ParseString(text string) (*ast.Program, error) {
	return Parse([]byte(text), DefaultFilename)
}

type parser struct {
	src      []byte
	filename string
	pos      hcl.Pos
}

func (p *parser) peek() (rune, bool) {
	if p.pos.Byte >= len(p.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRune(p.src[p.pos.Byte:])
	return r, true
}

func (p *parser) advance() {
	r, size := utf8.DecodeRune(p.src[p.pos.Byte:])
	p.pos.Byte += size
	if r == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
}

func (p *parser) skipSpace() {
	for {
		r, ok := p.peek()
		if !ok || !isSpace(r) {
			return
		}
		p.advance()
	}
}

func (p *parser) rangeFrom(start hcl.Pos) hcl.Range {
	return hcl.Range{Filename: p.filename, Start: start, End: p.pos}
}

// charRange covers the single character at the current position.
func (p *parser) charRange() hcl.Range {
	start := p.pos
	end := start
	if _, ok := p.peek(); ok {
		_, size := utf8.DecodeRune(p.src[start.Byte:])
		end.Byte += size
		end.Column++
	}
	return hcl.Range{Filename: p.filename, Start: start, End: end}
}

func (p *parser) fail(rng hcl.Range, summary, detail string) *Error {
	return &Error{Range: rng, Summary: summary, Detail: detail}
}

func (p *parser) parseProgram() (*ast.Program, error) {
	start := p.pos
	prog := &ast.Program{}

	for {
		p.skipSpace()
		r, ok := p.peek()
		if !ok {
			break
		}

		switch r {
		case '(':
			call, err := p.parseCall()
			if err != nil {
				return nil, err
			}
			prog.Calls = append(prog.Calls, call)
		case ')':
			return nil, p.fail(p.charRange(), "Unexpected ')'", "There is no open '(' for this ')' to close.")
		default:
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			return nil, p.fail(v.SrcRange(),
				fmt.Sprintf("Unexpected %s at top level", v.Kind()),
				"Only parenthesized calls are allowed at the top level of a Rhizfile.")
		}
	}

	prog.Range = p.rangeFrom(start)
	return prog, nil
}

func (p *parser) parseCall() (*ast.Call, error) {
	start := p.pos
	open := p.charRange()
	p.advance() // (

	call := &ast.Call{}
	for {
		p.skipSpace()
		r, ok := p.peek()
		if !ok {
			return nil, p.fail(open, "Unclosed '('", "This '(' has no matching ')' before the end of the file.")
		}
		if r == ')' {
			p.advance()
			call.Range = p.rangeFrom(start)
			return call, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		call.Items = append(call.Items, v)
	}
}

func (p *parser) parseValue() (ast.Value, error) {
	r, _ := p.peek()
	switch {
	case r == '(':
		return p.parseCall()
	case r == '"':
		return p.parseText()
	case isSymbolStart(r):
		return p.parseSymbol()
	case unicode.IsDigit(r):
		start := p.pos
		for {
			r, ok := p.peek()
			if !ok || isDelimiter(r) {
				break
			}
			p.advance()
		}
		return nil, p.fail(p.rangeFrom(start), "Invalid symbol", "Symbols must not start with a digit.")
	default:
		return nil, p.fail(p.charRange(),
			fmt.Sprintf("Unexpected character %q", r),
			"Expected a call, a symbol or a quoted string.")
	}
}

func (p *parser) parseText() (*ast.Text, error) {
	start := p.pos
	open := p.charRange()
	p.advance() // opening quote
	contentStart := p.pos.Byte

	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.fail(open, "Unterminated string literal", "This string has no closing '\"' before the end of the file.")
		}
		if r == '"' {
			value := string(p.src[contentStart:p.pos.Byte])
			p.advance()
			return &ast.Text{Value: value, Range: p.rangeFrom(start)}, nil
		}
		p.advance()
	}
}

func (p *parser) parseSymbol() (*ast.Symbol, error) {
	start := p.pos
	for {
		r, ok := p.peek()
		if !ok || isDelimiter(r) {
			break
		}
		if !isSymbolChar(r) {
			detail := "Symbols may only contain letters, digits and hyphens."
			if r == '_' {
				detail = "Underscores are not allowed in symbols; use hyphens instead."
			}
			return nil, p.fail(p.charRange(), fmt.Sprintf("Invalid character %q in symbol", r), detail)
		}
		p.advance()
	}
	return &ast.Symbol{
		Name:  string(p.src[start.Byte:p.pos.Byte]),
		Range: p.rangeFrom(start),
	}, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDelimiter(r rune) bool {
	return isSpace(r) || r == '(' || r == ')' || r == '"'
}

func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || r == '-'
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}
