package token

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// FormatVersion version of the TOON text format implemented by this module
const FormatVersion = "1.5"

type Character byte

const (
	MappingValueCharacter  Character = ':'
	SequenceEntryCharacter           = '-'
	ArrayStartCharacter              = '['
	ArrayEndCharacter                = ']'
	FieldsStartCharacter             = '{'
	FieldsEndCharacter               = '}'
	CommaCharacter                   = ','
	PipeCharacter                    = '|'
	DoubleQuoteCharacter             = '"'
	EscapeCharacter                  = '\\'
	SpaceCharacter                   = ' '
	TabCharacter                     = '\t'
	LineBreakCharacter               = '\n'
)

// DefaultDelimiter delimiter used when an array header carries no override
const DefaultDelimiter = byte(CommaCharacter)

// SequenceEntryMarker marker prefix of a list-item line
const SequenceEntryMarker = "- "

// IsValidDelimiter whether c is one of the three legal field delimiters
func IsValidDelimiter(c byte) bool {
	switch c {
	case byte(CommaCharacter), byte(TabCharacter), byte(PipeCharacter):
		return true
	}
	return false
}

type Type int

const (
	UnknownType Type = iota
	MappingKeyType
	MappingValueType
	SequenceEntryType
	ArrayHeaderType
	CollectEntryType
	DoubleQuoteType
	SpaceType
	NullType
	BoolType
	IntegerType
	FloatType
	StringType
)

func (t Type) String() string {
	switch t {
	case UnknownType:
		return "Unknown"
	case MappingKeyType:
		return "MappingKey"
	case MappingValueType:
		return "MappingValue"
	case SequenceEntryType:
		return "SequenceEntry"
	case ArrayHeaderType:
		return "ArrayHeader"
	case CollectEntryType:
		return "CollectEntry"
	case DoubleQuoteType:
		return "DoubleQuote"
	case SpaceType:
		return "Space"
	case NullType:
		return "Null"
	case BoolType:
		return "Bool"
	case IntegerType:
		return "Integer"
	case FloatType:
		return "Float"
	case StringType:
		return "String"
	}
	return ""
}

type ReservedKeyword string

const (
	Null  ReservedKeyword = "null"
	False                 = "false"
	True                  = "true"
)

var (
	ReservedKeywordMap = map[ReservedKeyword]func(string, string, *Position) *Token{
		Null: func(value string, org string, pos *Position) *Token {
			return &Token{
				Type:     NullType,
				Value:    value,
				Origin:   org,
				Position: pos,
			}
		},
		False: func(value string, org string, pos *Position) *Token {
			return &Token{
				Type:     BoolType,
				Value:    value,
				Origin:   org,
				Position: pos,
			}
		},
		True: func(value string, org string, pos *Position) *Token {
			return &Token{
				Type:     BoolType,
				Value:    value,
				Origin:   org,
				Position: pos,
			}
		},
	}
)

// isNumber returns whether the text parses as an integer or a finite
// decimal. The format has no exponent and no hex/octal/binary forms.
func isNumber(str string) (bool, bool) {
	if str == "" || str == "-" {
		return false, false
	}
	isFloat := false
	digitNum := 0
	for idx := 0; idx < len(str); idx++ {
		c := str[idx]
		switch {
		case c >= '0' && c <= '9':
			digitNum++
			continue
		case c == '.':
			if isFloat {
				return false, false
			}
			if idx == 0 || idx == len(str)-1 {
				return false, false
			}
			isFloat = true
			continue
		case c == '-':
			if idx == 0 {
				continue
			}
		}
		return false, false
	}
	if digitNum == 0 {
		return false, false
	}
	return true, isFloat
}

// IsInteger whether str is a decimal integer with optional leading minus
func IsInteger(str string) bool {
	ok, isFloat := isNumber(str)
	return ok && !isFloat
}

// IsNumber whether str is an integer or a finite decimal
func IsNumber(str string) bool {
	ok, _ := isNumber(str)
	return ok
}

var (
	safeIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	foldedPathPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)+$`)
	headerLikePattern     = regexp.MustCompile(`^\[\d+.*\]`)
)

// IsSafeIdentifier whether the key can appear unquoted and participate in
// key folding.
func IsSafeIdentifier(key string) bool {
	return safeIdentifierPattern.MatchString(key)
}

// IsFoldedPath whether the key is a dotted chain of safe identifiers, the
// shape produced by key folding.
func IsFoldedPath(key string) bool {
	return foldedPathPattern.MatchString(key)
}

// IsNeedQuoted returns whether the value requires double quotes to survive
// a roundtrip with the given active delimiter.
func IsNeedQuoted(value string, delim byte) bool {
	if value == "" {
		return true
	}
	switch ReservedKeyword(value) {
	case Null, False, True:
		return true
	}
	if IsNumber(value) {
		return true
	}
	first := value[0]
	last := value[len(value)-1]
	if first == ' ' || first == '\t' || last == ' ' || last == '\t' {
		return true
	}
	if strings.HasPrefix(value, SequenceEntryMarker) {
		return true
	}
	if first == byte(FieldsStartCharacter) {
		return true
	}
	if headerLikePattern.MatchString(value) {
		return true
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case delim, byte(MappingValueCharacter), byte(DoubleQuoteCharacter), byte(EscapeCharacter):
			return true
		}
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

// QuoteString quotes and escapes value if the delimiter context requires
// it, otherwise returns it unchanged. ensureASCII additionally escapes
// every non-ASCII rune as \uXXXX inside the quotes.
func QuoteString(value string, delim byte, ensureASCII bool) string {
	if !IsNeedQuoted(value, delim) {
		if !ensureASCII || isASCII(value) {
			return value
		}
	}
	return Quote(value, ensureASCII)
}

// Quote unconditionally quotes and escapes value.
func Quote(value string, ensureASCII bool) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(byte(DoubleQuoteCharacter))
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if ensureASCII && r > unicode.MaxASCII {
				if r > 0xffff {
					r1, r2 := utf16Pair(r)
					fmt.Fprintf(&b, `\u%04X\u%04X`, r1, r2)
				} else {
					fmt.Fprintf(&b, `\u%04X`, r)
				}
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte(byte(DoubleQuoteCharacter))
	return b.String()
}

func utf16Pair(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r >> 10), 0xdc00 + (r & 0x3ff)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// Unquote removes the surrounding double quotes and resolves escape
// sequences. Errors are plain messages so the caller can attach the
// position of the token it was unquoting.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != byte(DoubleQuoteCharacter) {
		return "", fmt.Errorf("not a quoted string")
	}
	if s[len(s)-1] != byte(DoubleQuoteCharacter) {
		return "", fmt.Errorf("unterminated quote")
	}
	body := s[1 : len(s)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != byte(EscapeCharacter) {
			if c == byte(DoubleQuoteCharacter) {
				return "", fmt.Errorf("unescaped quote inside quoted string")
			}
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		switch body[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 >= len(body) {
				return "", fmt.Errorf("truncated \\u escape")
			}
			r, err := parseHex4(body[i+1 : i+5])
			if err != nil {
				return "", err
			}
			i += 4
			if r >= 0xd800 && r <= 0xdbff && i+6 < len(body) &&
				body[i+1] == '\\' && body[i+2] == 'u' {
				r2, err := parseHex4(body[i+3 : i+7])
				if err != nil {
					return "", err
				}
				if r2 >= 0xdc00 && r2 <= 0xdfff {
					r = 0x10000 + (r-0xd800)<<10 + (r2 - 0xdc00)
					i += 6
				}
			}
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("illegal escape sequence \\%c", body[i])
		}
	}
	return b.String(), nil
}

func parseHex4(s string) (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid \\u escape digit %q", c)
		}
	}
	return r, nil
}

// New classifies a scalar text and creates the token for it.
func New(value string, org string, pos *Position) *Token {
	fn := ReservedKeywordMap[ReservedKeyword(value)]
	if fn != nil {
		return fn(value, org, pos)
	}
	if ok, isFloat := isNumber(value); ok {
		tk := &Token{
			Type:     IntegerType,
			Value:    value,
			Origin:   org,
			Position: pos,
		}
		if isFloat {
			tk.Type = FloatType
		}
		return tk
	}
	return &Token{
		Type:     StringType,
		Value:    value,
		Origin:   org,
		Position: pos,
	}
}

type Position struct {
	Line        int
	Column      int
	Offset      int
	IndentNum   int
	IndentLevel int
}

func (p *Position) String() string {
	return fmt.Sprintf("[level:%d,line:%d,column:%d,offset:%d]", p.IndentLevel, p.Line, p.Column, p.Offset)
}

type Token struct {
	Type     Type
	Value    string
	Origin   string
	Position *Position
	Next     *Token
	Prev     *Token
}

func (t *Token) PreviousType() Type {
	if t.Prev != nil {
		return t.Prev.Type
	}
	return UnknownType
}

func (t *Token) NextType() Type {
	if t.Next != nil {
		return t.Next.Type
	}
	return UnknownType
}

// Clone copies the token without the Prev/Next links.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	copied := *t
	if t.Position != nil {
		pos := *t.Position
		copied.Position = &pos
	}
	copied.Prev = nil
	copied.Next = nil
	return &copied
}

type Tokens []*Token

func (t *Tokens) add(tk *Token) {
	tokens := *t
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		last.Next = tk
		tk.Prev = last
	}
	tokens = append(tokens, tk)
	*t = tokens
}

// Add append new some tokens
func (t *Tokens) Add(tks ...*Token) {
	for _, tk := range tks {
		t.add(tk)
	}
}
