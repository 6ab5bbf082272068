package toon

import (
	"strings"

	"github.com/goccy/go-toon/ast"
	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/parser"
	"github.com/goccy/go-toon/token"
)

// expandNode reverses key folding: every unquoted key shaped like a
// dotted chain of safe identifiers becomes a chain of nested objects.
// Quoted keys are literal and never expand. A prefix used both as a
// scalar and as a sub-object is a conflict: fatal in strict mode,
// last-wins with a warning in lenient mode.
func (d *Decoder) expandNode(node ast.Node) (ast.Node, error) {
	switch n := node.(type) {
	case *ast.MappingNode:
		expanded := ast.Mapping(n.Token)
		for _, field := range n.Values {
			value, err := d.expandNode(field.Value)
			if err != nil {
				return nil, err
			}
			if !field.Key.IsQuoted() && token.IsFoldedPath(field.Key.Value) {
				segments := strings.Split(field.Key.Value, ".")
				if err := d.insertPath(expanded, segments, value, field.Key); err != nil {
					return nil, err
				}
				continue
			}
			if err := d.insertPath(expanded, []string{field.Key.Value}, value, field.Key); err != nil {
				return nil, err
			}
		}
		return expanded, nil
	case *ast.SequenceNode:
		values := make([]ast.Node, 0, len(n.Values))
		for _, value := range n.Values {
			expanded, err := d.expandNode(value)
			if err != nil {
				return nil, err
			}
			values = append(values, expanded)
		}
		copied := *n
		copied.Values = values
		return &copied, nil
	}
	return node, nil
}

func (d *Decoder) insertPath(dst *ast.MappingNode, segments []string, value ast.Node, key *ast.StringNode) error {
	head := segments[0]
	for _, existing := range dst.Values {
		if existing.Key.Value != head {
			continue
		}
		if len(segments) == 1 {
			if d.strict {
				return errors.ErrDuplicateKey(head, key.GetToken())
			}
			d.warnings = append(d.warnings, &parser.Warning{
				Message: "path expansion conflict on key \"" + head + "\", last value wins",
				Token:   key.GetToken(),
			})
			existing.Value = value
			return nil
		}
		child, ok := existing.Value.(*ast.MappingNode)
		if !ok {
			if d.strict {
				return errors.ErrDuplicateKey(head, key.GetToken())
			}
			d.warnings = append(d.warnings, &parser.Warning{
				Message: "path expansion conflict on key \"" + head + "\", last value wins",
				Token:   key.GetToken(),
			})
			child = ast.Mapping(key.GetToken())
			existing.Value = child
		}
		return d.insertPath(child, segments[1:], value, key)
	}
	if len(segments) == 1 {
		dst.Values = append(dst.Values, ast.MappingValue(d.segmentKey(head, key), value))
		return nil
	}
	child := ast.Mapping(key.GetToken())
	dst.Values = append(dst.Values, ast.MappingValue(d.segmentKey(head, key), child))
	return d.insertPath(child, segments[1:], value, key)
}

// segmentKey builds a key node for one expanded path segment, anchored at
// the original dotted key's position.
func (d *Decoder) segmentKey(segment string, origin *ast.StringNode) *ast.StringNode {
	tk := origin.GetToken().Clone()
	tk.Type = token.StringType
	tk.Value = segment
	return ast.String(tk)
}
