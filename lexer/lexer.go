package lexer

import (
	"strings"

	"github.com/goccy/go-toon/token"
)

// Tokenize converts a TOON document into a flat token stream for
// highlighting and error windows. It is a best-effort lexer: malformed
// lines still produce tokens whose origins reconstruct the source
// byte-for-byte.
func Tokenize(src string) token.Tokens {
	var tokens token.Tokens
	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		tks := tokenizeLine(raw, lineNum)
		if len(tks) == 0 {
			tks = []*token.Token{{
				Type:     token.SpaceType,
				Value:    "",
				Origin:   raw,
				Position: &token.Position{Line: lineNum, Column: 1},
			}}
		}
		if i != len(lines)-1 {
			tks[len(tks)-1].Origin += "\n"
		}
		tokens.Add(tks...)
	}
	return tokens
}

type lineLexer struct {
	raw    string
	line   int
	col    int
	tokens []*token.Token
}

func tokenizeLine(raw string, lineNum int) []*token.Token {
	if strings.TrimSpace(raw) == "" {
		if raw == "" {
			return nil
		}
		return []*token.Token{{
			Type:     token.SpaceType,
			Value:    "",
			Origin:   raw,
			Position: &token.Position{Line: lineNum, Column: 1},
		}}
	}
	l := &lineLexer{raw: raw, line: lineNum}
	indent := 0
	for indent < len(raw) && (raw[indent] == ' ' || raw[indent] == '\t') {
		indent++
	}
	l.col = indent
	content := raw[indent:]

	if content == "-" || strings.HasPrefix(content, token.SequenceEntryMarker) {
		marker := content
		if marker != "-" {
			marker = token.SequenceEntryMarker
		}
		l.emit(token.SequenceEntryType, marker, raw[:indent]+marker)
		content = content[len(marker):]
	} else if indent > 0 {
		// carry the indent on the first real token
		defer func() {
			if len(l.tokens) > 0 {
				l.tokens[0].Origin = raw[:indent] + l.tokens[0].Origin
			}
		}()
	}
	l.lexContent(content)
	return l.tokens
}

func (l *lineLexer) emit(typ token.Type, value, origin string) {
	l.tokens = append(l.tokens, &token.Token{
		Type:     typ,
		Value:    value,
		Origin:   origin,
		Position: &token.Position{Line: l.line, Column: l.col + 1},
	})
	l.col += len(origin)
}

func (l *lineLexer) lexContent(content string) {
	if content == "" {
		return
	}
	if key, header, rest, ok := splitHeader(content); ok {
		if key != "" {
			l.emit(token.MappingKeyType, key, key)
		}
		l.emit(token.ArrayHeaderType, header, header)
		l.emit(token.MappingValueType, ":", ":")
		l.lexValues(rest)
		return
	}
	if key, rest, ok := splitKey(content); ok {
		l.emit(token.MappingKeyType, key, key)
		l.emit(token.MappingValueType, ":", ":")
		l.lexValues(rest)
		return
	}
	l.lexValues(content)
}

// lexValues splits a value region on whichever delimiter it uses and
// classifies each cell.
func (l *lineLexer) lexValues(rest string) {
	if rest == "" {
		return
	}
	spaces := len(rest) - len(strings.TrimLeft(rest, " "))
	if spaces > 0 {
		l.emit(token.SpaceType, "", rest[:spaces])
		rest = rest[spaces:]
	}
	if rest == "" {
		return
	}
	delim := detectDelimiter(rest)
	begin := 0
	flush := func(end int) {
		cell := rest[begin:end]
		if cell != "" {
			l.emitScalar(cell)
		} else {
			l.emit(token.StringType, "", "")
		}
	}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '"':
			end := closingQuote(rest, i)
			if end < 0 {
				i = len(rest) - 1
			} else {
				i = end
			}
		case delim:
			flush(i)
			l.emit(token.CollectEntryType, string(delim), string(delim))
			begin = i + 1
		}
	}
	flush(len(rest))
}

func (l *lineLexer) emitScalar(cell string) {
	trimmed := strings.TrimSpace(cell)
	if strings.HasPrefix(trimmed, `"`) {
		l.emit(token.DoubleQuoteType, trimmed, cell)
		return
	}
	tk := token.New(trimmed, cell, &token.Position{Line: l.line, Column: l.col + 1})
	l.tokens = append(l.tokens, tk)
	l.col += len(cell)
}

func detectDelimiter(s string) byte {
	for _, d := range []byte{byte(token.CommaCharacter), byte(token.TabCharacter), byte(token.PipeCharacter)} {
		inQuote := false
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '"':
				inQuote = !inQuote
			case d:
				if !inQuote {
					return d
				}
			}
		}
	}
	return byte(token.CommaCharacter)
}

func closingQuote(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// splitHeader recognizes `<key>?[N<delim>?]({fields})?:` and returns the
// key text, the bracket portion and the rest after the colon.
func splitHeader(content string) (string, string, string, bool) {
	keyEnd := 0
	switch {
	case content[0] == '[':
	case content[0] == '"':
		end := closingQuote(content, 0)
		if end < 0 || end+1 >= len(content) || content[end+1] != '[' {
			return "", "", "", false
		}
		keyEnd = end + 1
	default:
		idx := strings.IndexByte(content, '[')
		if idx <= 0 || strings.ContainsAny(content[:idx], ":\"") {
			return "", "", "", false
		}
		keyEnd = idx
	}
	i := keyEnd + 1
	digits := 0
	for i < len(content) && content[i] >= '0' && content[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return "", "", "", false
	}
	if i < len(content) && (content[i] == '\t' || content[i] == '|') {
		i++
	}
	if i >= len(content) || content[i] != ']' {
		return "", "", "", false
	}
	i++
	if i < len(content) && content[i] == '{' {
		for i < len(content) && content[i] != '}' {
			if content[i] == '"' {
				end := closingQuote(content, i)
				if end < 0 {
					return "", "", "", false
				}
				i = end
			}
			i++
		}
		if i >= len(content) {
			return "", "", "", false
		}
		i++
	}
	if i >= len(content) || content[i] != ':' {
		return "", "", "", false
	}
	return content[:keyEnd], content[keyEnd:i], content[i+1:], true
}

// splitKey recognizes `<key>: <rest>` with an optionally quoted key.
func splitKey(content string) (string, string, bool) {
	if content[0] == '"' {
		end := closingQuote(content, 0)
		if end < 0 || end+1 >= len(content) || content[end+1] != ':' {
			return "", "", false
		}
		return content[:end+1], content[end+2:], true
	}
	idx := strings.IndexByte(content, ':')
	if idx <= 0 {
		return "", "", false
	}
	if quote := strings.IndexByte(content[:idx], '"'); quote >= 0 {
		return "", "", false
	}
	return content[:idx], content[idx+1:], true
}
