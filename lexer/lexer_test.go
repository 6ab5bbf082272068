package lexer_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-toon/lexer"
	"github.com/goccy/go-toon/token"
)

func TestTokenizeReassemblesSource(t *testing.T) {
	sources := []string{
		"name: Alice\nage: 30\n",
		"users[2]{id,name}:\n  1,Alice\n  2,Bob\n",
		"tags[3]: a,b,c\n",
		"[2]:\n  - id: 1\n    meta:\n      created: \"2025\"\n  - id: 2\n",
		"a:\n\n  b: \"x,y\"\n",
		"xs[2|]{a|b}:\n  1|2\n",
		"",
	}
	for _, src := range sources {
		tokens := lexer.Tokenize(src)
		var b strings.Builder
		for _, tk := range tokens {
			b.WriteString(tk.Origin)
		}
		if b.String() != src {
			t.Fatalf("tokens do not reassemble the source:\nsrc:  %q\ngot:  %q", src, b.String())
		}
	}
}

func TestTokenizeClassification(t *testing.T) {
	tokens := lexer.Tokenize("name: Alice\ncount: 2\nok: true\n")
	var (
		keys, values, colons int
	)
	for _, tk := range tokens {
		switch tk.Type {
		case token.MappingKeyType:
			keys++
		case token.MappingValueType:
			colons++
		case token.StringType, token.IntegerType, token.BoolType:
			values++
		}
	}
	if keys != 3 || colons != 3 || values != 3 {
		t.Fatalf("unexpected token mix: keys=%d colons=%d values=%d", keys, colons, values)
	}
}

func TestTokenizeHeader(t *testing.T) {
	tokens := lexer.Tokenize("users[2]{id,name}:\n")
	if tokens[0].Type != token.MappingKeyType || tokens[0].Value != "users" {
		t.Fatalf("unexpected first token %v", tokens[0])
	}
	if tokens[1].Type != token.ArrayHeaderType {
		t.Fatalf("expected header token but got %s", tokens[1].Type)
	}
}

func TestTokenizeSequenceEntry(t *testing.T) {
	tokens := lexer.Tokenize("[1]:\n  - 1\n")
	var foundMarker bool
	for _, tk := range tokens {
		if tk.Type == token.SequenceEntryType {
			foundMarker = true
		}
	}
	if !foundMarker {
		t.Fatal("expected a sequence entry token")
	}
}
