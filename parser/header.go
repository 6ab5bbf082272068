package parser

import (
	"strconv"
	"strings"

	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/scanner"
	"github.com/goccy/go-toon/token"
)

// arrayHeader is the parsed form of an array header line:
// `<key>?[N<delim>?]({fields})?: <inline>?`.
type arrayHeader struct {
	key       string
	keyQuoted bool
	length    int
	delim     byte
	fields    []string
	hasFields bool
	inline    string
	hasInline bool
}

// parseArrayHeader reports (nil, false, nil) when the content is not an
// array header at all. Once the bracket and at least one digit are seen
// the content is committed to header syntax and malformations are syntax
// errors.
func (p *parser) parseArrayHeader(content string, line *scanner.Line) (*arrayHeader, bool, error) {
	hdr := &arrayHeader{delim: p.docDelim}
	idx := 0
	switch {
	case content == "":
		return nil, false, nil
	case content[0] == byte(token.ArrayStartCharacter):
		// root form, no key
	case content[0] == byte(token.DoubleQuoteCharacter):
		end := findClosingQuote(content, 0)
		if end < 0 {
			return nil, false, errors.ErrSyntax("unterminated quote", p.tokenAt(line, 1))
		}
		if end+1 >= len(content) || content[end+1] != byte(token.ArrayStartCharacter) {
			return nil, false, nil
		}
		key, err := token.Unquote(content[:end+1])
		if err != nil {
			return nil, false, errors.ErrSyntax(err.Error(), p.tokenAt(line, 1))
		}
		hdr.key = key
		hdr.keyQuoted = true
		idx = end + 1
	default:
		bracket := strings.IndexByte(content, byte(token.ArrayStartCharacter))
		if bracket <= 0 {
			return nil, false, nil
		}
		keyPart := content[:bracket]
		if strings.ContainsAny(keyPart, ":\"") {
			return nil, false, nil
		}
		hdr.key = keyPart
		idx = bracket
	}

	// bracket
	idx++
	digitStart := idx
	for idx < len(content) && content[idx] >= '0' && content[idx] <= '9' {
		idx++
	}
	if idx == digitStart {
		// `[` without digits is not header syntax
		return nil, false, nil
	}
	length, err := strconv.Atoi(content[digitStart:idx])
	if err != nil {
		return nil, false, errors.ErrSyntax("invalid array length in header", p.tokenAt(line, digitStart+1))
	}
	hdr.length = length

	if idx < len(content) && (content[idx] == byte(token.TabCharacter) || content[idx] == byte(token.PipeCharacter)) {
		hdr.delim = content[idx]
		idx++
	}
	if idx >= len(content) || content[idx] != byte(token.ArrayEndCharacter) {
		return nil, false, errors.ErrSyntax("malformed array header: expected ']'", p.tokenAt(line, idx+1))
	}
	idx++

	if idx < len(content) && content[idx] == byte(token.FieldsStartCharacter) {
		end := findFieldsEnd(content, idx)
		if end < 0 {
			return nil, false, errors.ErrSyntax("malformed array header: expected '}'", p.tokenAt(line, idx+1))
		}
		fields, err := p.parseHeaderFields(content[idx+1:end], hdr.delim, line, idx+2)
		if err != nil {
			return nil, false, err
		}
		hdr.fields = fields
		hdr.hasFields = true
		idx = end + 1
	}

	if idx >= len(content) || content[idx] != byte(token.MappingValueCharacter) {
		return nil, false, errors.ErrSyntax("malformed array header: expected ':'", p.tokenAt(line, idx+1))
	}
	idx++
	suffix := strings.TrimLeft(content[idx:], " ")
	if suffix != "" {
		hdr.inline = suffix
		hdr.hasInline = true
	}
	return hdr, true, nil
}

func (p *parser) parseHeaderFields(inner string, delim byte, line *scanner.Line, col int) ([]string, error) {
	if inner == "" {
		return nil, errors.ErrSyntax("tabular header declares no fields", p.tokenAt(line, col))
	}
	cells, err := splitDelimited(inner, delim)
	if err != nil {
		return nil, errors.ErrSyntax(err.Error(), p.tokenAt(line, col))
	}
	fields := make([]string, 0, len(cells))
	for _, cell := range cells {
		name := cell
		if strings.HasPrefix(cell, `"`) {
			unquoted, err := token.Unquote(cell)
			if err != nil {
				return nil, errors.ErrSyntax(err.Error(), p.tokenAt(line, col))
			}
			name = unquoted
		} else if p.strict && containsForeignDelimiter(cell, delim) {
			return nil, errors.ErrDelimiterMismatch(
				"field name contains a delimiter other than the active one",
				p.tokenAt(line, col),
			)
		}
		fields = append(fields, name)
	}
	return fields, nil
}

// containsForeignDelimiter reports an unquoted field name carrying one of
// the two delimiters that are not active for this header.
func containsForeignDelimiter(name string, active byte) bool {
	for _, d := range []byte{byte(token.CommaCharacter), byte(token.TabCharacter), byte(token.PipeCharacter)} {
		if d == active {
			continue
		}
		if strings.IndexByte(name, d) >= 0 {
			return true
		}
	}
	return false
}

// findClosingQuote returns the index of the quote closing the one at
// start, or -1.
func findClosingQuote(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case byte(token.EscapeCharacter):
			i++
		case byte(token.DoubleQuoteCharacter):
			return i
		}
	}
	return -1
}

// findFieldsEnd returns the index of the '}' closing the '{' at start,
// respecting quoted field names, or -1.
func findFieldsEnd(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case byte(token.DoubleQuoteCharacter):
			end := findClosingQuote(s, i)
			if end < 0 {
				return -1
			}
			i = end
		case byte(token.FieldsEndCharacter):
			return i
		}
	}
	return -1
}

// splitDelimited splits on delim respecting double-quoted regions with
// backslash escapes inside them.
func splitDelimited(s string, delim byte) ([]string, error) {
	var (
		cells []string
		begin int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case byte(token.DoubleQuoteCharacter):
			end := findClosingQuote(s, i)
			if end < 0 {
				return nil, errUnterminatedQuote
			}
			i = end
		case delim:
			cells = append(cells, s[begin:i])
			begin = i + 1
		}
	}
	cells = append(cells, s[begin:])
	return cells, nil
}

var errUnterminatedQuote = strError("unterminated quote")

type strError string

func (e strError) Error() string { return string(e) }

// hasUnquotedColon reports whether the content carries a ':' outside any
// quoted region, the shape of a key-value pair.
func hasUnquotedColon(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case byte(token.DoubleQuoteCharacter):
			end := findClosingQuote(s, i)
			if end < 0 {
				return false
			}
			i = end
		case byte(token.MappingValueCharacter):
			return true
		}
	}
	return false
}

// parseKey splits `<key>: <rest>` and returns the key, whether it was
// quoted, the text after the colon and the 1-based content column of the
// first rest character.
func (p *parser) parseKey(content string, line *scanner.Line) (string, bool, string, int, error) {
	if content == "" {
		return "", false, "", 0, errors.ErrSyntax("missing key", p.tokenAt(line, 1))
	}
	if content[0] == byte(token.DoubleQuoteCharacter) {
		end := findClosingQuote(content, 0)
		if end < 0 {
			return "", false, "", 0, errors.ErrSyntax("unterminated quote", p.tokenAt(line, 1))
		}
		key, err := token.Unquote(content[:end+1])
		if err != nil {
			return "", false, "", 0, errors.ErrSyntax(err.Error(), p.tokenAt(line, 1))
		}
		if end+1 >= len(content) || content[end+1] != byte(token.MappingValueCharacter) {
			return "", false, "", 0, errors.ErrSyntax("expected ':' after key", p.tokenAt(line, end+2))
		}
		return key, true, content[end+2:], end + 3, nil
	}
	idx := strings.IndexByte(content, byte(token.MappingValueCharacter))
	if idx < 0 {
		return "", false, "", 0, errors.ErrSyntax("could not find ':' after key", p.tokenAt(line, 1))
	}
	key := strings.TrimRight(content[:idx], " ")
	if key == "" {
		return "", false, "", 0, errors.ErrSyntax("missing key before ':'", p.tokenAt(line, 1))
	}
	return key, false, content[idx+1:], idx + 2, nil
}
