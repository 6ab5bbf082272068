package toon_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	toon "github.com/goccy/go-toon"
)

func TestDecoder(t *testing.T) {
	tests := []struct {
		source string
		value  interface{}
	}{
		{
			"name: Alice\nage: 30\n",
			map[string]interface{}{"name": "Alice", "age": int64(30)},
		},
		{
			"v: hi\n",
			map[string]string{"v": "hi"},
		},
		{
			"v: \"true\"\n",
			map[string]string{"v": "true"},
		},
		{
			"v: true\n",
			map[string]interface{}{"v": true},
		},
		{
			"v: true\n",
			map[string]string{"v": "true"},
		},
		{
			"v: null\n",
			map[string]interface{}{"v": nil},
		},
		{
			"v: 10\n",
			map[string]int{"v": 10},
		},
		{
			"v: -10\n",
			map[string]int{"v": -10},
		},
		{
			"v: 10\n",
			map[string]uint{"v": 10},
		},
		{
			"v: 1.234\n",
			map[string]float64{"v": 1.234},
		},
		{
			"v: -0.5\n",
			map[string]interface{}{"v": -0.5},
		},
		{
			"v: -0\n",
			map[string]interface{}{"v": int64(0)},
		},
		{
			"v: \"42\"\n",
			map[string]interface{}{"v": "42"},
		},
		{
			"v: \"- hi\"\n",
			map[string]interface{}{"v": "- hi"},
		},
		{
			"v: \"\"\n",
			map[string]interface{}{"v": ""},
		},
		{
			"v: \"a\\nb\"\n",
			map[string]interface{}{"v": "a\nb"},
		},
		{
			"v: 18446744073709551615\n",
			map[string]interface{}{"v": uint64(18446744073709551615)},
		},
		{
			"tags[3]: a,b,c\n",
			map[string]interface{}{"tags": []interface{}{"a", "b", "c"}},
		},
		{
			"tags[0]:\n",
			map[string]interface{}{"tags": []interface{}{}},
		},
		{
			"ids[2]: 1,2\n",
			map[string][]int{"ids": {1, 2}},
		},
		{
			"users[2]{id,name}:\n  1,Alice\n  2,Bob\n",
			map[string]interface{}{
				"users": []interface{}{
					map[string]interface{}{"id": int64(1), "name": "Alice"},
					map[string]interface{}{"id": int64(2), "name": "Bob"},
				},
			},
		},
		{
			"users[2\t]{id\tname}:\n  1\tAlice\n  2\tBob\n",
			map[string]interface{}{
				"users": []interface{}{
					map[string]interface{}{"id": int64(1), "name": "Alice"},
					map[string]interface{}{"id": int64(2), "name": "Bob"},
				},
			},
		},
		{
			"users[2|]{id|name}:\n  1|Alice\n  2|Bob\n",
			map[string]interface{}{
				"users": []interface{}{
					map[string]interface{}{"id": int64(1), "name": "Alice"},
					map[string]interface{}{"id": int64(2), "name": "Bob"},
				},
			},
		},
		{
			"a:\n  b: 1\n  c: 2\n",
			map[string]interface{}{
				"a": map[string]interface{}{"b": int64(1), "c": int64(2)},
			},
		},
		{
			"a:\n",
			map[string]interface{}{"a": map[string]interface{}{}},
		},
		{
			"\"quoted key\": 1\n",
			map[string]interface{}{"quoted key": int64(1)},
		},
		{
			"[2]:\n  - 1\n  - two\n",
			[]interface{}{int64(1), "two"},
		},
		{
			"[1]:\n  -\n",
			[]interface{}{map[string]interface{}{}},
		},
		{
			"[2]:\n  - id: 1\n    meta:\n      created: \"2025\"\n  - id: 2\n    meta:\n      created: \"2024\"\n",
			[]interface{}{
				map[string]interface{}{
					"id":   int64(1),
					"meta": map[string]interface{}{"created": "2025"},
				},
				map[string]interface{}{
					"id":   int64(2),
					"meta": map[string]interface{}{"created": "2024"},
				},
			},
		},
		{
			"items[1]:\n  - nested[2]: a,b\n    note: ok\n",
			map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{
						"nested": []interface{}{"a", "b"},
						"note":   "ok",
					},
				},
			},
		},
		{
			"matrix[2]:\n  - [2]: 1,2\n  - [2]: 3,4\n",
			map[string]interface{}{
				"matrix": []interface{}{
					[]interface{}{int64(1), int64(2)},
					[]interface{}{int64(3), int64(4)},
				},
			},
		},
		{
			"hello\n",
			"hello",
		},
		{
			"42\n",
			int64(42),
		},
		{
			"",
			map[string]interface{}{},
		},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			dst := newTargetFor(test.value)
			if err := toon.UnmarshalWithOptions([]byte(test.source), dst); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			got := targetValue(dst)
			if diff := cmp.Diff(test.value, got); diff != "" {
				t.Fatalf("unexpected value (-want +got):\n%s", diff)
			}
		})
	}
}

// newTargetFor allocates a pointer whose element type matches the
// expected value so the table can mix destination types.
func newTargetFor(want interface{}) interface{} {
	switch want.(type) {
	case map[string]interface{}:
		return &map[string]interface{}{}
	case map[string]string:
		return &map[string]string{}
	case map[string]int:
		return &map[string]int{}
	case map[string]uint:
		return &map[string]uint{}
	case map[string]float64:
		return &map[string]float64{}
	case map[string][]int:
		return &map[string][]int{}
	case []interface{}:
		return &[]interface{}{}
	default:
		return new(interface{})
	}
}

func targetValue(dst interface{}) interface{} {
	switch v := dst.(type) {
	case *map[string]interface{}:
		return *v
	case *map[string]string:
		return *v
	case *map[string]int:
		return *v
	case *map[string]uint:
		return *v
	case *map[string]float64:
		return *v
	case *map[string][]int:
		return *v
	case *[]interface{}:
		return *v
	case *interface{}:
		return *v
	}
	return dst
}

func TestDecoder_OrderedMap(t *testing.T) {
	source := "name: Alice\nage: 30\n"
	var v interface{}
	if err := toon.UnmarshalWithOptions([]byte(source), &v, toon.UseOrderedMap()); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	expected := toon.MapSlice{
		{Key: "name", Value: "Alice"},
		{Key: "age", Value: int64(30)},
	}
	if diff := cmp.Diff(expected, v); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestDecoder_Struct(t *testing.T) {
	source := "id: 7\nname: Alice\nratio: 0.5\nskip: me\n"
	type User struct {
		ID     int     `toon:"id"`
		Name   string  `toon:"name"`
		Ratio  float64 `toon:"ratio"`
		Ignore string  `toon:"-"`
	}
	var user User
	if err := toon.Unmarshal([]byte(source), &user); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if user.ID != 7 || user.Name != "Alice" || user.Ratio != 0.5 || user.Ignore != "" {
		t.Fatalf("unexpected struct value: %+v", user)
	}
}

func TestDecoder_NestedStruct(t *testing.T) {
	source := "users[2]{id,name}:\n  1,Alice\n  2,Bob\n"
	type User struct {
		ID   int    `toon:"id"`
		Name string `toon:"name"`
	}
	var v struct {
		Users []*User `toon:"users"`
	}
	if err := toon.Unmarshal([]byte(source), &v); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(v.Users) != 2 {
		t.Fatalf("expected 2 users but got %d", len(v.Users))
	}
	if v.Users[0].ID != 1 || v.Users[0].Name != "Alice" {
		t.Fatalf("unexpected first user: %+v", v.Users[0])
	}
	if v.Users[1].ID != 2 || v.Users[1].Name != "Bob" {
		t.Fatalf("unexpected second user: %+v", v.Users[1])
	}
}

func TestDecoder_StrictLengthMismatch(t *testing.T) {
	source := "xs[3]: 1,2\n"
	var v interface{}
	err := toon.Unmarshal([]byte(source), &v)
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
	if !toon.IsLengthMismatchError(err) {
		t.Fatalf("expected length mismatch error but got %v", err)
	}
	mismatch := toon.AsLengthMismatchError(err)
	if mismatch.Declared != 3 || mismatch.Actual != 2 {
		t.Fatalf("unexpected counts: declared=%d actual=%d", mismatch.Declared, mismatch.Actual)
	}
	if mismatch.GetToken().Position.Line != 1 {
		t.Fatalf("expected error at line 1 but got %d", mismatch.GetToken().Position.Line)
	}
}

func TestDecoder_LenientLengthMismatch(t *testing.T) {
	source := "xs[3]: 1,2\n"
	var v map[string]interface{}
	dec := toon.NewDecoder(strings.NewReader(source), toon.Lenient())
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("failed to decode leniently: %v", err)
	}
	expected := []interface{}{int64(1), int64(2)}
	if diff := cmp.Diff(expected, v["xs"]); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
	if len(dec.Warnings()) != 1 {
		t.Fatalf("expected one warning but got %d", len(dec.Warnings()))
	}
}

func TestDecoder_StrictErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(error) bool
	}{
		{
			"duplicate key",
			"a: 1\na: 2\n",
			toon.IsDuplicateKeyError,
		},
		{
			"field mismatch",
			"users[1]{id,name}:\n  1\n",
			toon.IsFieldMismatchError,
		},
		{
			"list length mismatch",
			"xs[3]:\n  - 1\n  - 2\n",
			toon.IsLengthMismatchError,
		},
		{
			"tab indentation",
			"a:\n\tb: 1\n",
			toon.IsIndentationError,
		},
		{
			"indent not a multiple",
			"a:\n   b: 1\n",
			toon.IsIndentationError,
		},
		{
			"missing colon",
			"a: 1\nbroken\n",
			toon.IsSyntaxError,
		},
		{
			"illegal escape",
			"a: \"\\x\"\n",
			toon.IsSyntaxError,
		},
		{
			"unterminated quote",
			"a: \"oops\n",
			toon.IsSyntaxError,
		},
		{
			"malformed header",
			"xs[3: 1,2,3\n",
			toon.IsSyntaxError,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var v interface{}
			err := toon.Unmarshal([]byte(test.source), &v)
			if err == nil {
				t.Fatal("expected error")
			}
			if !test.check(err) {
				t.Fatalf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestDecoder_LenientDuplicateKey(t *testing.T) {
	source := "a: 1\na: 2\n"
	var v map[string]interface{}
	dec := toon.NewDecoder(strings.NewReader(source), toon.Lenient())
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("failed to decode leniently: %v", err)
	}
	if v["a"] != int64(2) {
		t.Fatalf("expected last value to win but got %v", v["a"])
	}
	if len(dec.Warnings()) != 1 {
		t.Fatalf("expected one warning but got %d", len(dec.Warnings()))
	}
}

func TestDecoder_ExpandPaths(t *testing.T) {
	source := "a.b.c: 42\n"
	var v map[string]interface{}
	if err := toon.UnmarshalWithOptions([]byte(source), &v, toon.ExpandPaths()); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	expected := map[string]interface{}{
		"a": map[string]interface{}{
			"b": map[string]interface{}{
				"c": int64(42),
			},
		},
	}
	if diff := cmp.Diff(expected, v); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestDecoder_ExpandPathsMerge(t *testing.T) {
	source := "a.b: 1\na.c: 2\n"
	var v map[string]interface{}
	if err := toon.UnmarshalWithOptions([]byte(source), &v, toon.ExpandPaths()); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	expected := map[string]interface{}{
		"a": map[string]interface{}{
			"b": int64(1),
			"c": int64(2),
		},
	}
	if diff := cmp.Diff(expected, v); diff != "" {
		t.Fatalf("unexpected value (-want +got):\n%s", diff)
	}
}

func TestDecoder_ExpandPathsQuotedKeyStaysLiteral(t *testing.T) {
	source := "\"a.b\": 1\n"
	var v map[string]interface{}
	if err := toon.UnmarshalWithOptions([]byte(source), &v, toon.ExpandPaths()); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if v["a.b"] != int64(1) {
		t.Fatalf("expected quoted key to stay literal: %v", v)
	}
}

func TestDecoder_ExpandPathsConflict(t *testing.T) {
	source := "a: 1\na.b: 2\n"
	var v map[string]interface{}
	err := toon.UnmarshalWithOptions([]byte(source), &v, toon.ExpandPaths())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !toon.IsDuplicateKeyError(err) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

func TestDecoder_NestingLimit(t *testing.T) {
	source := "a:\n  b:\n    c: 1\n"
	var v interface{}
	err := toon.UnmarshalWithOptions([]byte(source), &v, toon.NestingLimit(2))
	if err == nil {
		t.Fatal("expected limit error")
	}
	if !toon.IsLimitExceededError(err) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

func TestDecoder_ArrayLengthLimit(t *testing.T) {
	source := "xs[100]: 1,2\n"
	var v interface{}
	err := toon.UnmarshalWithOptions([]byte(source), &v, toon.ArrayLengthLimit(10))
	if err == nil {
		t.Fatal("expected limit error")
	}
	if !toon.IsLimitExceededError(err) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}

type versionText struct {
	value string
}

func (v *versionText) UnmarshalTOON(b []byte) error {
	v.value = "v" + string(b)
	return nil
}

func TestDecoder_Unmarshaler(t *testing.T) {
	source := "release: 1.5\n"
	var v struct {
		Release versionText `toon:"release"`
	}
	if err := toon.Unmarshal([]byte(source), &v); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if v.Release.value != "v1.5" {
		t.Fatalf("unexpected unmarshaler result: %q", v.Release.value)
	}
}

func TestDecoder_UnknownFieldsIgnored(t *testing.T) {
	source := "name: Alice\n_schema: ref\n"
	var v struct {
		Name string `toon:"name"`
	}
	if err := toon.Unmarshal([]byte(source), &v); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if v.Name != "Alice" {
		t.Fatalf("unexpected name: %q", v.Name)
	}
}

func TestDecoder_RefSigilIsOrdinaryContent(t *testing.T) {
	source := "ref: $1\n"
	var v map[string]interface{}
	if err := toon.Unmarshal([]byte(source), &v); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if v["ref"] != "$1" {
		t.Fatalf("expected sigil to decode as string content: %v", v["ref"])
	}
}
