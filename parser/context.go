package parser

import (
	"fmt"

	"github.com/goccy/go-toon/token"
)

const (
	// DefaultNestingLimit maximum depth of nested containers
	DefaultNestingLimit = 100
	// DefaultArrayLengthLimit maximum declared or counted array length
	DefaultArrayLengthLimit = 1000000
	// DefaultStringLengthLimit default cap applied by StringLengthLimit
	DefaultStringLengthLimit = 1000000
)

// Option configures the parser
type Option func(*parser)

// Indent sets the number of spaces per indentation level.
func Indent(spaces int) Option {
	return func(p *parser) {
		if spaces >= 1 {
			p.indent = spaces
		}
	}
}

// Lenient turns validation failures into collected warnings and lets the
// parser recover with best effort. Syntax and indentation problems stay
// fatal.
func Lenient() Option {
	return func(p *parser) {
		p.strict = false
	}
}

// NestingLimit caps the depth of nested containers.
func NestingLimit(limit int) Option {
	return func(p *parser) {
		if limit > 0 {
			p.maxNesting = limit
		}
	}
}

// ArrayLengthLimit caps declared and counted array lengths.
func ArrayLengthLimit(limit int) Option {
	return func(p *parser) {
		if limit > 0 {
			p.maxArrayLength = limit
		}
	}
}

// StringLengthLimit caps the length of a single scalar and of the key of a
// plain key-value line. Array header keys, tabular field names and the
// first key on a list item's hyphen line are not checked.
func StringLengthLimit(limit int) Option {
	return func(p *parser) {
		if limit > 0 {
			p.maxStringLength = limit
		}
	}
}

// Warning is a validation problem the lenient parser recovered from.
type Warning struct {
	Message string
	Token   *token.Token
}

func (w *Warning) String() string {
	if w.Token != nil && w.Token.Position != nil {
		return fmt.Sprintf("[%d:%d] %s", w.Token.Position.Line, w.Token.Position.Column, w.Message)
	}
	return w.Message
}

func (p *parser) warnf(tk *token.Token, format string, args ...interface{}) {
	p.warnings = append(p.warnings, &Warning{
		Message: fmt.Sprintf(format, args...),
		Token:   tk,
	})
}
