package toon_test

import (
	"testing"

	toon "github.com/goccy/go-toon"
)

func FuzzUnmarshal(f *testing.F) {
	seeds := []string{
		"",
		"name: Alice\nage: 30\n",
		"users[2]{id,name}:\n  1,Alice\n  2,Bob\n",
		"tags[3]: a,b,c\n",
		"[2]:\n  - id: 1\n    meta:\n      created: \"2025\"\n  - id: 2\n",
		"a.b.c: 42\n",
		"users[2|]{id|name}:\n  1|Alice\n  2|Bob\n",
		"- not: an item\n",
		"xs[3]: 1,2\n",
		"\"quoted\": \"va\\nlue\"\n",
		"a:\n\tb: 1\n",
		"[9999999999]:\n",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		var v interface{}
		// decoding arbitrary input must never panic
		_ = toon.Unmarshal(data, &v)

		var lenient interface{}
		_ = toon.UnmarshalWithOptions(data, &lenient, toon.Lenient(), toon.ExpandPaths())
	})
}
