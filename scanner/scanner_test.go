package scanner_test

import (
	"testing"

	"github.com/goccy/go-toon/scanner"
)

func scan(t *testing.T, src string, strict bool) (scanner.Lines, *scanner.Scanner) {
	t.Helper()
	var s scanner.Scanner
	s.Init(src, scanner.DefaultIndentSpaces, strict)
	lines, err := s.Scan()
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	return lines, &s
}

func TestScanner(t *testing.T) {
	src := "a: 1\n  b: 2\n\n    c: 3\n"
	lines, s := scan(t, src, true)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines but got %d", len(lines))
	}
	expected := []struct {
		content string
		depth   int
		number  int
	}{
		{"a: 1", 0, 1},
		{"b: 2", 1, 2},
		{"c: 3", 2, 4},
	}
	for i, want := range expected {
		line := lines[i]
		if line.Content != want.content || line.Depth != want.depth || line.Number != want.number {
			t.Fatalf("line %d: got content=%q depth=%d number=%d", i, line.Content, line.Depth, line.Number)
		}
	}
	blanks := s.BlankLines()
	if len(blanks) != 2 || blanks[0] != 3 {
		t.Fatalf("unexpected blank lines %v", blanks)
	}
}

func TestScannerCRLF(t *testing.T) {
	lines, _ := scan(t, "a: 1\r\n  b: 2\r\n", true)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines but got %d", len(lines))
	}
	if lines[0].Content != "a: 1" {
		t.Fatalf("expected carriage return to be stripped: %q", lines[0].Content)
	}
}

func TestScannerIndentSize(t *testing.T) {
	var s scanner.Scanner
	s.Init("a: 1\n    b: 2\n", 4, true)
	lines, err := s.Scan()
	if err != nil {
		t.Fatalf("failed to scan: %v", err)
	}
	if lines[1].Depth != 1 {
		t.Fatalf("expected depth 1 with indent 4 but got %d", lines[1].Depth)
	}
}

func TestScannerStrictTab(t *testing.T) {
	var s scanner.Scanner
	s.Init("a:\n\tb: 1\n", scanner.DefaultIndentSpaces, true)
	if _, err := s.Scan(); err == nil {
		t.Fatal("expected tab indentation error")
	}
}

func TestScannerStrictIndentMultiple(t *testing.T) {
	var s scanner.Scanner
	s.Init("a:\n   b: 1\n", scanner.DefaultIndentSpaces, true)
	if _, err := s.Scan(); err == nil {
		t.Fatal("expected indent multiple error")
	}
}

func TestScannerLineChain(t *testing.T) {
	lines, _ := scan(t, "a: 1\n\nb: 2\n", true)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines but got %d", len(lines))
	}
	// the chain walks through the blank line between them
	blank := lines[0].Token.Next
	if blank == nil || blank.Position.Line != 2 {
		t.Fatal("expected blank line token in the chain")
	}
	if blank.Next != lines[1].Token {
		t.Fatal("expected chain to reach the next content line")
	}
}

func TestCursor(t *testing.T) {
	lines, _ := scan(t, "a: 1\n  b: 2\n", true)
	cur := scanner.NewCursor(lines)
	if cur.AtEnd() {
		t.Fatal("cursor should not start at end")
	}
	if cur.PeekAtDepth(1) != nil {
		t.Fatal("first line is not at depth 1")
	}
	first := cur.Next()
	if first.Content != "a: 1" {
		t.Fatalf("unexpected first line %q", first.Content)
	}
	if got := cur.PeekAtDepth(1); got == nil || got.Content != "b: 2" {
		t.Fatal("expected second line at depth 1")
	}
	cur.Advance()
	if !cur.AtEnd() {
		t.Fatal("cursor should be at end")
	}
	if cur.Next() != nil {
		t.Fatal("next at end should be nil")
	}
}
