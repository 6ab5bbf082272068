package printer

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-toon/token"
)

// Property additional property set for each the token
type Property struct {
	Prefix string
	Suffix string
}

// PrintFunc returns property instance
type PrintFunc func() *Property

// Printer create text from token collection
type Printer struct {
	LineNumber       bool
	LineNumberFormat func(num int) string
	MapKey           PrintFunc
	Marker           PrintFunc
	Bool             PrintFunc
	String           PrintFunc
	Number           PrintFunc
}

func defaultLineNumberFormat(num int) string {
	return fmt.Sprintf("%2d | ", num)
}

func (p *Printer) property(tk *token.Token) *Property {
	prop := &Property{}
	switch tk.NextType() {
	case token.MappingValueType:
		if p.MapKey != nil {
			return p.MapKey()
		}
		return prop
	}
	switch tk.Type {
	case token.MappingKeyType:
		if p.MapKey != nil {
			return p.MapKey()
		}
		return prop
	case token.SequenceEntryType, token.ArrayHeaderType:
		if p.Marker != nil {
			return p.Marker()
		}
		return prop
	case token.BoolType:
		if p.Bool != nil {
			return p.Bool()
		}
		return prop
	case token.NullType:
		if p.Bool != nil {
			return p.Bool()
		}
		return prop
	case token.StringType, token.DoubleQuoteType:
		if p.String != nil {
			return p.String()
		}
		return prop
	case token.IntegerType, token.FloatType:
		if p.Number != nil {
			return p.Number()
		}
		return prop
	default:
	}
	return prop
}

// PrintTokens create text from token collection
func (p *Printer) PrintTokens(tokens token.Tokens) string {
	if len(tokens) == 0 {
		return ""
	}
	if p.LineNumber {
		if p.LineNumberFormat == nil {
			p.LineNumberFormat = defaultLineNumberFormat
		}
	}
	texts := []string{}
	lineNumber := tokens[0].Position.Line
	for _, tk := range tokens {
		lines := strings.Split(tk.Origin, "\n")
		prop := p.property(tk)
		header := ""
		if p.LineNumber {
			header = p.LineNumberFormat(lineNumber)
		}
		if len(lines) == 1 {
			line := prop.Prefix + lines[0] + prop.Suffix
			if len(texts) == 0 {
				texts = append(texts, header+line)
				lineNumber++
			} else {
				text := texts[len(texts)-1]
				texts[len(texts)-1] = text + line
			}
		} else {
			for idx, src := range lines {
				if p.LineNumber {
					header = p.LineNumberFormat(lineNumber)
				}
				line := prop.Prefix + src + prop.Suffix
				if idx == 0 {
					if len(texts) == 0 {
						texts = append(texts, header+line)
						lineNumber++
					} else {
						text := texts[len(texts)-1]
						texts[len(texts)-1] = text + line
					}
				} else {
					texts = append(texts, header+line)
					lineNumber++
				}
			}
		}
	}
	return strings.Join(texts, "\n")
}

const escape = "\x1b"

func format(attr color.Attribute) string {
	return fmt.Sprintf("%s[%dm", escape, attr)
}

// SetDefaultColorSet assigns the color properties used by tooncat and by
// colored error output.
func (p *Printer) SetDefaultColorSet() {
	p.Bool = func() *Property {
		return &Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.Number = func() *Property {
		return &Property{
			Prefix: format(color.FgHiMagenta),
			Suffix: format(color.Reset),
		}
	}
	p.MapKey = func() *Property {
		return &Property{
			Prefix: format(color.FgHiCyan),
			Suffix: format(color.Reset),
		}
	}
	p.Marker = func() *Property {
		return &Property{
			Prefix: format(color.FgHiYellow),
			Suffix: format(color.Reset),
		}
	}
	p.String = func() *Property {
		return &Property{
			Prefix: format(color.FgHiGreen),
			Suffix: format(color.Reset),
		}
	}
}

// PrintErrorMessage renders msg, in red when isColored.
func (p *Printer) PrintErrorMessage(msg string, isColored bool) string {
	if isColored {
		return fmt.Sprintf("%s%s%s",
			format(color.FgHiRed),
			msg,
			format(color.Reset),
		)
	}
	return msg
}

// PrintErrorToken renders a window of up to three lines before and three
// lines after the error token's line, a `>` marker on the offending line and a caret
// under the offending column. The token must be part of a line-chained
// stream as produced by the scanner.
func (p *Printer) PrintErrorToken(tk *token.Token, isColored bool) string {
	if tk == nil || tk.Position == nil {
		return ""
	}
	curLine := tk.Position.Line
	minLine := curLine - 3
	if minLine < 1 {
		minLine = 1
	}
	maxLine := curLine + 3
	first := tk
	for first.Prev != nil && first.Prev.Position.Line >= minLine {
		first = first.Prev
	}
	headerWidth := len(fmt.Sprintf("  %2d | ", curLine))
	lineNumberFormat := func(num int) string {
		marker := "  "
		if num == curLine {
			marker = "> "
		}
		header := fmt.Sprintf("%s%2d | ", marker, num)
		if isColored {
			fn := color.New(color.Bold, color.FgHiWhite).SprintFunc()
			return fn(header)
		}
		return header
	}
	var texts []string
	for cur := first; cur != nil && cur.Position.Line <= maxLine; cur = cur.Next {
		texts = append(texts, lineNumberFormat(cur.Position.Line)+strings.TrimSuffix(cur.Origin, "\n"))
		if cur.Position.Line == curLine {
			texts = append(texts, strings.Repeat(" ", headerWidth+tk.Position.Column-1)+"^")
		}
	}
	return strings.Join(texts, "\n")
}
