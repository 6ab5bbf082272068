package toon

import (
	"github.com/goccy/go-toon/token"
)

// foldChain collapses a single-key object chain hanging off key into a
// dotted path. It folds only while the running key and every chain key
// are safe identifiers, the chain value stays a single-entry object, and
// the flatten depth cap (zero means unlimited) is not hit. The folded
// key is checked against the quoting rules; a chain step that would
// force quoting stops one step earlier.
func foldChain(key string, value interface{}, flattenDepth int, delim byte) (string, interface{}, bool) {
	if !token.IsSafeIdentifier(key) {
		return key, value, false
	}
	folded := false
	steps := 0
	for flattenDepth <= 0 || steps < flattenDepth {
		obj, ok := value.(MapSlice)
		if !ok || len(obj) != 1 {
			break
		}
		childKey, ok := obj[0].Key.(string)
		if !ok || !token.IsSafeIdentifier(childKey) {
			break
		}
		candidate := key + "." + childKey
		if token.IsNeedQuoted(candidate, delim) {
			break
		}
		key = candidate
		value = obj[0].Value
		folded = true
		steps++
	}
	return key, value, folded
}
