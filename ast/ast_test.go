package ast_test

import (
	"testing"

	"github.com/goccy/go-toon/ast"
	"github.com/goccy/go-toon/token"
)

func pos() *token.Position {
	return &token.Position{Line: 1, Column: 1}
}

func TestScalarNodes(t *testing.T) {
	tests := []struct {
		node     ast.Node
		nodeType ast.NodeType
		text     string
	}{
		{ast.Null(token.New("null", "null", pos())), ast.NullType, "null"},
		{ast.Bool(token.New("true", "true", pos())), ast.BoolType, "true"},
		{ast.Integer(token.New("-42", "-42", pos())), ast.IntegerType, "-42"},
		{ast.Float(token.New("0.5", "0.5", pos())), ast.FloatType, "0.5"},
		{ast.String(token.New("hello", "hello", pos())), ast.StringType, "hello"},
	}
	for _, test := range tests {
		if test.node.Type() != test.nodeType {
			t.Fatalf("expected %s but got %s", test.nodeType, test.node.Type())
		}
		if test.node.String() != test.text {
			t.Fatalf("expected %q but got %q", test.text, test.node.String())
		}
	}
}

func TestIntegerNodeValues(t *testing.T) {
	small := ast.Integer(token.New("-42", "-42", pos()))
	if v, ok := small.Value.(int64); !ok || v != -42 {
		t.Fatalf("unexpected value %v", small.Value)
	}
	big := ast.Integer(token.New("18446744073709551615", "18446744073709551615", pos()))
	if v, ok := big.Value.(uint64); !ok || v != 18446744073709551615 {
		t.Fatalf("unexpected value %v", big.Value)
	}
}

func TestMappingString(t *testing.T) {
	key := ast.String(token.New("name", "name", pos()))
	value := ast.String(token.New("Alice", "Alice", pos()))
	mapping := ast.Mapping(nil, ast.MappingValue(key, value))
	if mapping.String() != "name: Alice" {
		t.Fatalf("unexpected text %q", mapping.String())
	}
}

func TestSequenceString(t *testing.T) {
	seq := ast.Sequence(nil, ast.InlineForm,
		ast.Integer(token.New("1", "1", pos())),
		ast.Integer(token.New("2", "2", pos())),
	)
	if seq.String() != "[2]: 1,2" {
		t.Fatalf("unexpected text %q", seq.String())
	}
}

func TestQuotedStringNode(t *testing.T) {
	tk := &token.Token{
		Type:     token.DoubleQuoteType,
		Value:    "42",
		Origin:   `"42"`,
		Position: pos(),
	}
	node := ast.String(tk)
	if !node.IsQuoted() {
		t.Fatal("expected quoted string node")
	}
	if node.String() != `"42"` {
		t.Fatalf("unexpected text %q", node.String())
	}
}
