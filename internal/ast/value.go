package ast

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Kind distinguishes the variants of a Value.
type Kind int

const (
	// KindProgram is the root of a parsed Rhizfile.
	KindProgram Kind = iota
	// KindCall is a parenthesized list of values.
	KindCall
	// KindSymbol is an unquoted identifier.
	KindSymbol
	// KindText is a quoted string literal.
	KindText
)

// String returns the lowercase name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindCall:
		return "call"
	case KindSymbol:
		return "symbol"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Value is a node of the tree. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// SrcRange is the location of the value in its source file.
	SrcRange() hcl.Range
	// String renders the value back to source form.
	String() string

	value()
}

// Program is the ordered sequence of top-level calls of a source file.
type Program struct {
	Calls []*Call
	Range hcl.Range
}

// Call is a parenthesized form. The first item is the operator, the rest are
// its arguments. An empty call is representable and rejected at evaluation.
type Call struct {
	Items []Value
	Range hcl.Range
}

// Symbol is a bare identifier such as `log` or `empty-dir`.
type Symbol struct {
	Name  string
	Range hcl.Range
}

// Text is a quoted literal. Its Value excludes the surrounding quotes.
type Text struct {
	Value string
	Range hcl.Range
}

func (*Program) Kind() Kind { return KindProgram }
func (*Call) Kind() Kind    { return KindCall }
func (*Symbol) Kind() Kind  { return KindSymbol }
func (*Text) Kind() Kind    { return KindText }

func (p *Program) SrcRange() hcl.Range { return p.Range }
func (c *Call) SrcRange() hcl.Range    { return c.Range }
func (s *Symbol) SrcRange() hcl.Range  { return s.Range }
func (t *Text) SrcRange() hcl.Range    { return t.Range }

func (*Program) value() {}
func (*Call) value()    {}
func (*Symbol) value()  {}
func (*Text) value()    {}

func (p *Program) String() string {
	parts := make([]string, len(p.Calls))
	for i, c := range p.Calls {
		parts[i] = c.String()
	}
	return strings.Join(parts, "\n")
}

func (c *Call) String() string {
	parts := make([]string, len(c.Items))
	for i, v := range c.Items {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (s *Symbol) String() string { return s.Name }

func (t *Text) String() string { return `"` + t.Value + `"` }

// Head returns the operator of the call, or nil for an empty call.
func (c *Call) Head() Value {
	if len(c.Items) == 0 {
		return nil
	}
	return c.Items[0]
}

// Args returns every item after the head. The returned slice aliases the
// call's items and must not be modified.
func (c *Call) Args() []Value {
	if len(c.Items) < 2 {
		return nil
	}
	return c.Items[1:]
}

// IsSymbol reports whether v is the symbol with the given name.
func IsSymbol(v Value, name string) bool {
	s, ok := v.(*Symbol)
	return ok && s.Name == name
}
