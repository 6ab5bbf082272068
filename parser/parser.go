package parser

import (
	"strings"

	"github.com/goccy/go-toon/ast"
	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/scanner"
	"github.com/goccy/go-toon/token"
)

// Parse parses a TOON document and returns the root node together with
// the warnings a lenient run recovered from.
func Parse(src string, opts ...Option) (ast.Node, []*Warning, error) {
	p := &parser{
		indent:          scanner.DefaultIndentSpaces,
		strict:          true,
		docDelim:        token.DefaultDelimiter,
		maxNesting:      DefaultNestingLimit,
		maxArrayLength:  DefaultArrayLengthLimit,
		maxStringLength: DefaultStringLengthLimit,
	}
	for _, opt := range opts {
		opt(p)
	}
	var s scanner.Scanner
	s.Init(src, p.indent, p.strict)
	lines, err := s.Scan()
	if err != nil {
		return nil, nil, err
	}
	node, err := p.parse(scanner.NewCursor(lines))
	if err != nil {
		return nil, p.warnings, err
	}
	return node, p.warnings, nil
}

// ParseBytes parses a TOON document from a byte slice.
func ParseBytes(b []byte, opts ...Option) (ast.Node, []*Warning, error) {
	return Parse(string(b), opts...)
}

type parser struct {
	indent          int
	strict          bool
	docDelim        byte
	maxNesting      int
	maxArrayLength  int
	maxStringLength int
	warnings        []*Warning
	depth           int
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxNesting {
		return errors.ErrLimitExceeded("nesting depth", p.maxNesting)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parse(cur *scanner.Cursor) (ast.Node, error) {
	first := cur.Peek()
	if first == nil {
		// empty document decodes to an empty object
		return ast.Mapping(nil), nil
	}
	if p.strict && first.Depth != 0 {
		return nil, errors.ErrIndentation("unexpected indentation at document root", first.Token)
	}
	hdr, ok, err := p.parseArrayHeader(first.Content, first)
	if err != nil {
		return nil, err
	}
	var node ast.Node
	if ok && hdr.key == "" {
		cur.Advance()
		node, err = p.parseArray(hdr, first, cur)
	} else if !ok && !hasUnquotedColon(first.Content) {
		cur.Advance()
		node, err = p.parseScalar(first.Content, first, 1)
	} else {
		node, err = p.parseMapping(cur, first.Depth)
	}
	if err != nil {
		return nil, err
	}
	if rest := cur.Peek(); rest != nil {
		return nil, errors.ErrSyntax("value is not allowed in this context", rest.Token)
	}
	return node, nil
}

func isSequenceEntry(content string) bool {
	return content == "-" || strings.HasPrefix(content, token.SequenceEntryMarker)
}

func (p *parser) parseMapping(cur *scanner.Cursor, baseDepth int) (*ast.MappingNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first := cur.Peek()
	if first == nil || first.Depth < baseDepth {
		return ast.Mapping(nil), nil
	}
	fieldDepth := first.Depth
	node := ast.Mapping(first.Token)
	seen := map[string]struct{}{}
	for {
		line := cur.Peek()
		if line == nil || line.Depth < fieldDepth || isSequenceEntry(line.Content) {
			break
		}
		if line.Depth > fieldDepth {
			return nil, errors.ErrIndentation("unexpected indentation", line.Token)
		}
		cur.Advance()
		value, err := p.parseKeyValue(line, cur)
		if err != nil {
			return nil, err
		}
		if err := p.appendField(node, seen, value); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *parser) appendField(node *ast.MappingNode, seen map[string]struct{}, value *ast.MappingValueNode) error {
	key := value.Key.Value
	if _, exists := seen[key]; exists {
		if p.strict {
			return errors.ErrDuplicateKey(key, value.Key.GetToken())
		}
		p.warnf(value.Key.GetToken(), "duplicate key %q, last value wins", key)
		for i, existing := range node.Values {
			if existing.Key.Value == key {
				node.Values[i] = value
				return nil
			}
		}
	}
	seen[key] = struct{}{}
	node.Values = append(node.Values, value)
	return nil
}

func (p *parser) parseKeyValue(line *scanner.Line, cur *scanner.Cursor) (*ast.MappingValueNode, error) {
	hdr, ok, err := p.parseArrayHeader(line.Content, line)
	if err != nil {
		return nil, err
	}
	if ok {
		if hdr.key == "" {
			return nil, errors.ErrSyntax("array header requires a key in this context", line.Token)
		}
		seq, err := p.parseArray(hdr, line, cur)
		if err != nil {
			return nil, err
		}
		return ast.MappingValue(p.keyNode(hdr.key, hdr.keyQuoted, line), seq), nil
	}

	key, quoted, rest, restCol, err := p.parseKey(line.Content, line)
	if err != nil {
		return nil, err
	}
	if len(key) > p.maxStringLength {
		return nil, errors.ErrLimitExceeded("string length", p.maxStringLength)
	}
	keyNode := p.keyNode(key, quoted, line)

	value, err := p.parseFieldValue(rest, restCol, line, cur, line.Depth+1)
	if err != nil {
		return nil, err
	}
	return ast.MappingValue(keyNode, value), nil
}

// parseFieldValue decodes the text after a key's colon. An empty rest
// means a nested object on deeper lines or an empty object; childDepth is
// the minimum depth those nested lines must sit at.
func (p *parser) parseFieldValue(rest string, restCol int, line *scanner.Line, cur *scanner.Cursor, childDepth int) (ast.Node, error) {
	trimmed := strings.TrimLeft(rest, " ")
	if trimmed != "" {
		return p.parseScalar(trimmed, line, restCol+len(rest)-len(trimmed))
	}
	next := cur.Peek()
	if next == nil || next.Depth < childDepth {
		return ast.Mapping(line.Token), nil
	}
	if isSequenceEntry(next.Content) {
		return nil, errors.ErrSyntax("list items require an array header", next.Token)
	}
	return p.parseMapping(cur, childDepth)
}

func (p *parser) parseArray(hdr *arrayHeader, line *scanner.Line, cur *scanner.Cursor) (*ast.SequenceNode, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if hdr.length > p.maxArrayLength {
		return nil, errors.ErrLimitExceeded("array length", p.maxArrayLength)
	}
	seq := &ast.SequenceNode{
		Token:     line.Token,
		Length:    hdr.length,
		Delimiter: hdr.delim,
		Fields:    hdr.fields,
	}
	switch {
	case hdr.hasInline:
		if hdr.hasFields {
			return nil, errors.ErrSyntax("tabular array cannot carry inline values", line.Token)
		}
		seq.Form = ast.InlineForm
		if err := p.parseInlineValues(seq, hdr, line); err != nil {
			return nil, err
		}
	case hdr.hasFields:
		seq.Form = ast.TabularForm
		if err := p.parseTabularRows(seq, hdr, line, cur); err != nil {
			return nil, err
		}
	default:
		seq.Form = ast.ListForm
		if hdr.length == 0 {
			seq.Form = ast.InlineForm
		}
		if err := p.parseListItems(seq, hdr, line, cur); err != nil {
			return nil, err
		}
	}
	if len(seq.Values) > p.maxArrayLength {
		return nil, errors.ErrLimitExceeded("array length", p.maxArrayLength)
	}
	return seq, nil
}

func (p *parser) parseInlineValues(seq *ast.SequenceNode, hdr *arrayHeader, line *scanner.Line) error {
	cells, err := splitDelimited(hdr.inline, hdr.delim)
	if err != nil {
		return errors.ErrSyntax(err.Error(), line.Token)
	}
	for _, cell := range cells {
		value, err := p.parseScalar(strings.TrimSpace(cell), line, 1)
		if err != nil {
			return err
		}
		seq.Values = append(seq.Values, value)
	}
	if len(seq.Values) != hdr.length {
		if p.strict {
			return errors.ErrLengthMismatch(hdr.length, len(seq.Values), line.Token)
		}
		p.warnf(line.Token, "array declares %d values but has %d", hdr.length, len(seq.Values))
	}
	return nil
}

func (p *parser) parseTabularRows(seq *ast.SequenceNode, hdr *arrayHeader, line *scanner.Line, cur *scanner.Cursor) error {
	rowDepth := line.Depth + 1
	for {
		row := cur.Peek()
		if row == nil || row.Depth != rowDepth || isSequenceEntry(row.Content) {
			break
		}
		if p.strict && len(seq.Values) >= hdr.length {
			if hasUnquotedColon(row.Content) {
				// a key-value line after the declared rows belongs to the
				// enclosing structure
				break
			}
			actual := len(seq.Values)
			for r := cur.Peek(); r != nil && r.Depth == rowDepth && !isSequenceEntry(r.Content) && !hasUnquotedColon(r.Content); r = cur.Peek() {
				cur.Advance()
				actual++
			}
			return errors.ErrLengthMismatch(hdr.length, actual, line.Token)
		}
		if !p.strict && len(seq.Values) >= hdr.length && hasUnquotedColon(row.Content) {
			break
		}
		cur.Advance()
		obj, err := p.parseRow(row, hdr)
		if err != nil {
			return err
		}
		seq.Values = append(seq.Values, obj)
	}
	if len(seq.Values) != hdr.length {
		if p.strict {
			return errors.ErrLengthMismatch(hdr.length, len(seq.Values), line.Token)
		}
		p.warnf(line.Token, "array declares %d rows but has %d", hdr.length, len(seq.Values))
	}
	return nil
}

func (p *parser) parseRow(row *scanner.Line, hdr *arrayHeader) (*ast.MappingNode, error) {
	cells, err := splitDelimited(row.Content, hdr.delim)
	if err != nil {
		return nil, errors.ErrSyntax(err.Error(), row.Token)
	}
	if len(cells) != len(hdr.fields) {
		if p.strict {
			return nil, errors.ErrFieldMismatch(len(hdr.fields), len(cells), row.Token)
		}
		cells = p.recoverRow(cells, row, hdr)
	}
	obj := ast.Mapping(row.Token)
	for i, field := range hdr.fields {
		cell := ""
		if i < len(cells) {
			cell = strings.TrimSpace(cells[i])
		}
		value, err := p.parseScalar(cell, row, 1)
		if err != nil {
			return nil, err
		}
		obj.Values = append(obj.Values, ast.MappingValue(p.keyNode(field, false, row), value))
	}
	return obj, nil
}

// recoverRow re-splits a lenient-mode row whose cell count disagrees with
// the header, trying the two other delimiters before padding.
func (p *parser) recoverRow(cells []string, row *scanner.Line, hdr *arrayHeader) []string {
	if len(cells) == 1 && len(hdr.fields) > 1 {
		for _, d := range []byte{byte(token.CommaCharacter), byte(token.TabCharacter), byte(token.PipeCharacter)} {
			if d == hdr.delim {
				continue
			}
			redone, err := splitDelimited(row.Content, d)
			if err == nil && len(redone) == len(hdr.fields) {
				p.warnf(row.Token, "row is delimited by %q instead of the active delimiter", d)
				return redone
			}
		}
	}
	p.warnf(row.Token, "row has %d fields but header declares %d", len(cells), len(hdr.fields))
	return cells
}

func (p *parser) parseListItems(seq *ast.SequenceNode, hdr *arrayHeader, line *scanner.Line, cur *scanner.Cursor) error {
	itemDepth := line.Depth + 1
	for {
		item := cur.Peek()
		if item == nil || item.Depth != itemDepth || !isSequenceEntry(item.Content) {
			if item != nil && item.Depth > itemDepth {
				return errors.ErrIndentation("unexpected indentation", item.Token)
			}
			break
		}
		value, err := p.parseListItem(cur, itemDepth)
		if err != nil {
			return err
		}
		seq.Values = append(seq.Values, value)
	}
	if len(seq.Values) != hdr.length {
		if p.strict {
			return errors.ErrLengthMismatch(hdr.length, len(seq.Values), line.Token)
		}
		p.warnf(line.Token, "array declares %d items but has %d", hdr.length, len(seq.Values))
	}
	return nil
}

func (p *parser) parseListItem(cur *scanner.Cursor, itemDepth int) (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	line := cur.Next()
	if line.Content == "-" {
		// a bare hyphen denotes an empty item
		return ast.Mapping(line.Token), nil
	}
	body := strings.TrimLeft(line.Content[len(token.SequenceEntryMarker):], " ")
	bodyCol := len(line.Content) - len(body) + 1
	if body == "" {
		return ast.Mapping(line.Token), nil
	}

	hdr, ok, err := p.parseArrayHeader(body, line)
	if err != nil {
		return nil, err
	}
	if ok && hdr.key == "" {
		return p.parseArray(hdr, line, cur)
	}
	if ok || hasUnquotedColon(body) {
		return p.parseObjectFromListItem(body, bodyCol, line, cur, itemDepth)
	}
	return p.parseScalar(body, line, bodyCol)
}

// parseObjectFromListItem decodes a list item whose object starts on the
// hyphen line. The first field is decoded with the item line as its base;
// its sibling fields follow at itemDepth+1, and a nested object serving
// as the first field's value sits deeper still, at itemDepth+2.
func (p *parser) parseObjectFromListItem(firstContent string, firstCol int, line *scanner.Line, cur *scanner.Cursor, itemDepth int) (*ast.MappingNode, error) {
	node := ast.Mapping(line.Token)
	seen := map[string]struct{}{}

	hdr, ok, err := p.parseArrayHeader(firstContent, line)
	if err != nil {
		return nil, err
	}
	if ok {
		seq, err := p.parseArray(hdr, line, cur)
		if err != nil {
			return nil, err
		}
		first := ast.MappingValue(p.keyNode(hdr.key, hdr.keyQuoted, line), seq)
		if err := p.appendField(node, seen, first); err != nil {
			return nil, err
		}
	} else {
		key, quoted, rest, restCol, err := p.parseKey(firstContent, line)
		if err != nil {
			return nil, err
		}
		value, err := p.parseFieldValue(rest, firstCol+restCol-1, line, cur, itemDepth+2)
		if err != nil {
			return nil, err
		}
		first := ast.MappingValue(p.keyNode(key, quoted, line), value)
		if err := p.appendField(node, seen, first); err != nil {
			return nil, err
		}
	}

	followDepth := itemDepth + 1
	for {
		next := cur.Peek()
		if next == nil || next.Depth != followDepth || isSequenceEntry(next.Content) {
			if next != nil && next.Depth > followDepth {
				return nil, errors.ErrIndentation("unexpected indentation in list item", next.Token)
			}
			break
		}
		cur.Advance()
		value, err := p.parseKeyValue(next, cur)
		if err != nil {
			return nil, err
		}
		if err := p.appendField(node, seen, value); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// parseScalar classifies one scalar text and builds its node.
func (p *parser) parseScalar(text string, line *scanner.Line, col int) (ast.Node, error) {
	if len(text) > p.maxStringLength {
		return nil, errors.ErrLimitExceeded("string length", p.maxStringLength)
	}
	pos := p.positionAt(line, col)
	if text == "" {
		tk := p.chainedToken(&token.Token{
			Type:     token.StringType,
			Value:    "",
			Origin:   line.Token.Origin,
			Position: pos,
		}, line)
		return ast.String(tk), nil
	}
	if text[0] == byte(token.DoubleQuoteCharacter) {
		end := findClosingQuote(text, 0)
		if end < 0 {
			return nil, errors.ErrSyntax("unterminated quote", p.tokenAt(line, col))
		}
		if end != len(text)-1 {
			return nil, errors.ErrSyntax("unexpected text after quoted value", p.tokenAt(line, col+end+1))
		}
		value, err := token.Unquote(text)
		if err != nil {
			return nil, errors.ErrSyntax(err.Error(), p.tokenAt(line, col))
		}
		tk := p.chainedToken(&token.Token{
			Type:     token.DoubleQuoteType,
			Value:    value,
			Origin:   line.Token.Origin,
			Position: pos,
		}, line)
		return ast.String(tk), nil
	}
	tk := p.chainedToken(token.New(text, line.Token.Origin, pos), line)
	switch tk.Type {
	case token.NullType:
		return ast.Null(tk), nil
	case token.BoolType:
		return ast.Bool(tk), nil
	case token.IntegerType:
		return ast.Integer(tk), nil
	case token.FloatType:
		return ast.Float(tk), nil
	}
	return ast.String(tk), nil
}

func (p *parser) keyNode(key string, quoted bool, line *scanner.Line) *ast.StringNode {
	typ := token.StringType
	if quoted {
		typ = token.DoubleQuoteType
	}
	tk := p.chainedToken(&token.Token{
		Type:     typ,
		Value:    key,
		Origin:   line.Token.Origin,
		Position: p.positionAt(line, 1),
	}, line)
	return ast.String(tk)
}

func (p *parser) positionAt(line *scanner.Line, contentCol int) *token.Position {
	pos := *line.Token.Position
	pos.Column = line.IndentSpaces + contentCol
	return &pos
}

// tokenAt creates an error token pointing into the line's content while
// keeping the neighbour links the error printer walks.
func (p *parser) tokenAt(line *scanner.Line, contentCol int) *token.Token {
	tk := *line.Token
	tk.Position = p.positionAt(line, contentCol)
	return &tk
}

// chainedToken links a freshly built token into the line chain so the
// error printer can reconstruct the surrounding source.
func (p *parser) chainedToken(tk *token.Token, line *scanner.Line) *token.Token {
	tk.Prev = line.Token.Prev
	tk.Next = line.Token.Next
	return tk
}
