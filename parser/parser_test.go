package parser_test

import (
	"testing"

	"github.com/goccy/go-toon/ast"
	"github.com/goccy/go-toon/parser"
	"github.com/goccy/go-toon/token"
)

func parse(t *testing.T, src string, opts ...parser.Option) ast.Node {
	t.Helper()
	node, _, err := parser.Parse(src, opts...)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", src, err)
	}
	return node
}

func TestParseMapping(t *testing.T) {
	node := parse(t, "name: Alice\nage: 30\n")
	mapping, ok := node.(*ast.MappingNode)
	if !ok {
		t.Fatalf("expected mapping but got %T", node)
	}
	if len(mapping.Values) != 2 {
		t.Fatalf("expected 2 fields but got %d", len(mapping.Values))
	}
	if mapping.Values[0].Key.Value != "name" {
		t.Fatalf("unexpected first key %q", mapping.Values[0].Key.Value)
	}
	str, ok := mapping.Values[0].Value.(*ast.StringNode)
	if !ok || str.Value != "Alice" {
		t.Fatalf("unexpected first value %v", mapping.Values[0].Value)
	}
	num, ok := mapping.Values[1].Value.(*ast.IntegerNode)
	if !ok || num.Value != int64(30) {
		t.Fatalf("unexpected second value %v", mapping.Values[1].Value)
	}
}

func TestParseScalarDocument(t *testing.T) {
	tests := []struct {
		src      string
		nodeType ast.NodeType
	}{
		{"null\n", ast.NullType},
		{"true\n", ast.BoolType},
		{"42\n", ast.IntegerType},
		{"4.2\n", ast.FloatType},
		{"hello\n", ast.StringType},
		{"\"a:b\"\n", ast.StringType},
	}
	for _, test := range tests {
		node := parse(t, test.src)
		if node.Type() != test.nodeType {
			t.Fatalf("%q: expected %s but got %s", test.src, test.nodeType, node.Type())
		}
	}
}

func TestParseEmptyDocument(t *testing.T) {
	node := parse(t, "")
	mapping, ok := node.(*ast.MappingNode)
	if !ok || len(mapping.Values) != 0 {
		t.Fatalf("expected empty mapping but got %v", node)
	}
}

func TestParseArrayForms(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		form   ast.SequenceForm
		values int
	}{
		{"inline", "xs[3]: 1,2,3\n", ast.InlineForm, 3},
		{"inline no space", "xs[2]:a,b\n", ast.InlineForm, 2},
		{"empty", "xs[0]:\n", ast.InlineForm, 0},
		{"tabular", "xs[2]{a,b}:\n  1,2\n  3,4\n", ast.TabularForm, 2},
		{"list", "xs[2]:\n  - 1\n  - two\n", ast.ListForm, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node := parse(t, test.src)
			mapping := node.(*ast.MappingNode)
			seq, ok := mapping.Values[0].Value.(*ast.SequenceNode)
			if !ok {
				t.Fatalf("expected sequence but got %T", mapping.Values[0].Value)
			}
			if seq.Form != test.form {
				t.Fatalf("expected %s form but got %s", test.form, seq.Form)
			}
			if len(seq.Values) != test.values {
				t.Fatalf("expected %d values but got %d", test.values, len(seq.Values))
			}
		})
	}
}

func TestParseRootArray(t *testing.T) {
	node := parse(t, "[2]:\n  - 1\n  - 2\n")
	seq, ok := node.(*ast.SequenceNode)
	if !ok {
		t.Fatalf("expected sequence but got %T", node)
	}
	if len(seq.Values) != 2 {
		t.Fatalf("expected 2 items but got %d", len(seq.Values))
	}
}

func TestParseTabularRowObjects(t *testing.T) {
	node := parse(t, "users[2]{id,name}:\n  1,Alice\n  2,Bob\n")
	mapping := node.(*ast.MappingNode)
	seq := mapping.Values[0].Value.(*ast.SequenceNode)
	if len(seq.Fields) != 2 || seq.Fields[0] != "id" || seq.Fields[1] != "name" {
		t.Fatalf("unexpected fields %v", seq.Fields)
	}
	row, ok := seq.Values[0].(*ast.MappingNode)
	if !ok {
		t.Fatalf("expected row object but got %T", seq.Values[0])
	}
	if row.Values[0].Key.Value != "id" || row.Values[1].Key.Value != "name" {
		t.Fatalf("unexpected row keys %v", row.Values)
	}
}

func TestParseListItemObjectPlacement(t *testing.T) {
	src := "[1]:\n  - id: 1\n    meta:\n      created: \"2025\"\n    done: true\n"
	node := parse(t, src)
	seq := node.(*ast.SequenceNode)
	item, ok := seq.Values[0].(*ast.MappingNode)
	if !ok {
		t.Fatalf("expected object item but got %T", seq.Values[0])
	}
	if len(item.Values) != 3 {
		t.Fatalf("expected 3 fields but got %d", len(item.Values))
	}
	meta, ok := item.Values[1].Value.(*ast.MappingNode)
	if !ok {
		t.Fatalf("meta must decode as an object, got %T", item.Values[1].Value)
	}
	if len(meta.Values) != 1 || meta.Values[0].Key.Value != "created" {
		t.Fatalf("unexpected meta contents %v", meta.Values)
	}
	if item.Values[2].Key.Value != "done" {
		t.Fatalf("sibling after nested object must belong to the item, got %q", item.Values[2].Key.Value)
	}
}

func TestParseNextListItemTerminatesObject(t *testing.T) {
	src := "[2]:\n  - id: 1\n  - id: 2\n"
	node := parse(t, src)
	seq := node.(*ast.SequenceNode)
	if len(seq.Values) != 2 {
		t.Fatalf("expected 2 items but got %d", len(seq.Values))
	}
	first := seq.Values[0].(*ast.MappingNode)
	if len(first.Values) != 1 {
		t.Fatalf("first item must not swallow the second, got %d fields", len(first.Values))
	}
}

func TestParseBareHyphenIsEmptyObject(t *testing.T) {
	node := parse(t, "[1]:\n  -\n")
	seq := node.(*ast.SequenceNode)
	item, ok := seq.Values[0].(*ast.MappingNode)
	if !ok || len(item.Values) != 0 {
		t.Fatalf("expected empty object item but got %v", seq.Values[0])
	}
}

func TestParseDelimiterOverride(t *testing.T) {
	node := parse(t, "xs[2|]{a|b}:\n  1|2\n  3|4\n")
	mapping := node.(*ast.MappingNode)
	seq := mapping.Values[0].Value.(*ast.SequenceNode)
	if seq.Delimiter != '|' {
		t.Fatalf("expected pipe delimiter but got %q", seq.Delimiter)
	}
	row := seq.Values[0].(*ast.MappingNode)
	if v := row.Values[1].Value.(*ast.IntegerNode); v.Value != int64(2) {
		t.Fatalf("unexpected cell value %v", v.Value)
	}
}

func TestParseQuotedCellKeepsDelimiter(t *testing.T) {
	node := parse(t, "xs[2]: \"a,b\",c\n")
	mapping := node.(*ast.MappingNode)
	seq := mapping.Values[0].Value.(*ast.SequenceNode)
	if len(seq.Values) != 2 {
		t.Fatalf("expected 2 values but got %d", len(seq.Values))
	}
	if s := seq.Values[0].(*ast.StringNode); s.Value != "a,b" {
		t.Fatalf("unexpected first value %q", s.Value)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"length mismatch inline", "xs[3]: 1,2\n"},
		{"length mismatch list", "xs[2]:\n  - 1\n"},
		{"field mismatch", "xs[1]{a,b}:\n  1\n"},
		{"duplicate key", "a: 1\na: 2\n"},
		{"missing colon", "broken\nbroken too\n"},
		{"root indent", "  a: 1\n"},
		{"tabular with inline", "xs[1]{a}: 1\n"},
		{"list without header", "a:\n  - 1\n"},
		{"stray deep line", "a: 1\n    b: 2\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, _, err := parser.Parse(test.src); err == nil {
				t.Fatalf("expected error for %q", test.src)
			}
		})
	}
}

func TestParseLenientWarnings(t *testing.T) {
	node, warnings, err := parser.Parse("xs[3]: 1,2\n", parser.Lenient())
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning but got %d", len(warnings))
	}
	mapping := node.(*ast.MappingNode)
	seq := mapping.Values[0].Value.(*ast.SequenceNode)
	if len(seq.Values) != 2 {
		t.Fatalf("expected best-effort 2 values but got %d", len(seq.Values))
	}
}

func TestParseLenientDelimiterRecovery(t *testing.T) {
	node, warnings, err := parser.Parse("xs[1]{a,b}:\n  1|2\n", parser.Lenient())
	if err != nil {
		t.Fatalf("lenient parse failed: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a warning for the recovered row")
	}
	mapping := node.(*ast.MappingNode)
	seq := mapping.Values[0].Value.(*ast.SequenceNode)
	row := seq.Values[0].(*ast.MappingNode)
	if v := row.Values[1].Value.(*ast.IntegerNode); v.Value != int64(2) {
		t.Fatalf("expected recovered cell but got %v", v.Value)
	}
}

func TestParseIndentOption(t *testing.T) {
	node := parse(t, "a:\n    b: 1\n", parser.Indent(4))
	mapping := node.(*ast.MappingNode)
	child, ok := mapping.Values[0].Value.(*ast.MappingNode)
	if !ok || len(child.Values) != 1 {
		t.Fatalf("expected nested object but got %v", mapping.Values[0].Value)
	}
}

func TestParseQuotedKeyHeader(t *testing.T) {
	node := parse(t, "\"odd key\"[2]: 1,2\n")
	mapping := node.(*ast.MappingNode)
	if mapping.Values[0].Key.Value != "odd key" {
		t.Fatalf("unexpected key %q", mapping.Values[0].Key.Value)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, _, err := parser.Parse("a: 1\nxs[3]: 1,2\n")
	if err == nil {
		t.Fatal("expected error")
	}
	scoped, ok := err.(interface{ GetToken() *token.Token })
	if !ok {
		t.Fatalf("expected token scoped error but got %T", err)
	}
	if scoped.GetToken().Position.Line != 2 {
		t.Fatalf("expected error at line 2 but got %d", scoped.GetToken().Position.Line)
	}
}
