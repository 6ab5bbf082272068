package scanner

import (
	"strings"

	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/token"
)

// DefaultIndentSpaces default number of spaces per indentation level
const DefaultIndentSpaces = 2

// Line is one non-blank source line with its indentation resolved to a
// depth. Token carries the raw line for error windows; its Prev/Next links
// connect consecutive lines of the document, blank lines included.
type Line struct {
	Token        *token.Token
	Raw          string
	IndentSpaces int
	Content      string
	Depth        int
	Number       int
}

// Lines scanned lines of a document, blanks excluded
type Lines []*Line

// Scanner holds the scanner's internal state while splitting a source text
// into depth-tagged lines. It must be initialized via Init before use.
type Scanner struct {
	source string
	// indentSpaces is the number of spaces that make up one depth level.
	indentSpaces int
	// strict rejects tab indentation and indents that are not a multiple
	// of indentSpaces.
	strict bool
	// blankLines records the 1-based numbers of blank and whitespace-only
	// lines for diagnostics.
	blankLines []int
}

// Init prepares the scanner for src with the given indent unit.
func (s *Scanner) Init(src string, indentSpaces int, strict bool) {
	if indentSpaces < 1 {
		indentSpaces = DefaultIndentSpaces
	}
	s.source = src
	s.indentSpaces = indentSpaces
	s.strict = strict
	s.blankLines = nil
}

// BlankLines 1-based numbers of the lines Scan excluded
func (s *Scanner) BlankLines() []int {
	return s.blankLines
}

// Scan splits the source into lines, strips the line terminator, computes
// the indentation depth of each line and chains line tokens for error
// reporting. Blank lines are excluded from the result.
func (s *Scanner) Scan() (Lines, error) {
	var (
		lines Lines
		prev  *token.Token
	)
	offset := 0
	for num, raw := range strings.Split(s.source, "\n") {
		lineOffset := offset
		offset += len(raw) + 1
		raw = strings.TrimSuffix(raw, "\r")
		lineNum := num + 1

		tk := &token.Token{
			Value:  strings.TrimSpace(raw),
			Origin: raw + "\n",
			Position: &token.Position{
				Line:   lineNum,
				Column: 1,
				Offset: lineOffset,
			},
		}
		if prev != nil {
			prev.Next = tk
			tk.Prev = prev
		}
		prev = tk

		if strings.TrimSpace(raw) == "" {
			s.blankLines = append(s.blankLines, lineNum)
			continue
		}

		indent := 0
		for indent < len(raw) && raw[indent] == byte(token.SpaceCharacter) {
			indent++
		}
		tabWidth := 0
		if indent < len(raw) && raw[indent] == byte(token.TabCharacter) {
			if s.strict {
				tk.Position.Column = indent + 1
				return nil, errors.ErrIndentation("found tab character in indentation", tk)
			}
			// lenient mode treats a tab as one indent unit
			for indent < len(raw) && (raw[indent] == byte(token.TabCharacter) || raw[indent] == byte(token.SpaceCharacter)) {
				if raw[indent] == byte(token.TabCharacter) {
					tabWidth += s.indentSpaces - 1
				}
				indent++
			}
		}
		depth := (indent + tabWidth) / s.indentSpaces
		if s.strict && indent%s.indentSpaces != 0 {
			tk.Position.Column = indent + 1
			return nil, errors.ErrIndentation("indentation is not a multiple of the indent size", tk)
		}

		content := raw[indent:]
		tk.Position.Column = indent + 1
		tk.Position.IndentNum = indent
		tk.Position.IndentLevel = depth
		lines = append(lines, &Line{
			Token:        tk,
			Raw:          raw,
			IndentSpaces: indent,
			Content:      content,
			Depth:        depth,
			Number:       lineNum,
		})
	}
	return lines, nil
}
