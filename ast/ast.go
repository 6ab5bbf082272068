package ast

import (
	"strconv"
	"strings"

	"github.com/goccy/go-toon/token"
)

// NodeType type identifier of node
type NodeType int

const (
	// UnknownNodeType type identifier for default
	UnknownNodeType NodeType = iota
	// NullType type identifier for null node
	NullType
	// BoolType type identifier for boolean node
	BoolType
	// IntegerType type identifier for integer node
	IntegerType
	// FloatType type identifier for float node
	FloatType
	// StringType type identifier for string node
	StringType
	// MappingType type identifier for mapping node
	MappingType
	// MappingValueType type identifier for key-value pair node
	MappingValueType
	// SequenceType type identifier for sequence node
	SequenceType
)

// String node type identifier to text
func (t NodeType) String() string {
	switch t {
	case UnknownNodeType:
		return "UnknownNode"
	case NullType:
		return "Null"
	case BoolType:
		return "Bool"
	case IntegerType:
		return "Integer"
	case FloatType:
		return "Float"
	case StringType:
		return "String"
	case MappingType:
		return "Mapping"
	case MappingValueType:
		return "MappingValue"
	case SequenceType:
		return "Sequence"
	}
	return ""
}

// SequenceForm emission form of a sequence
type SequenceForm int

const (
	// InlineForm primitive-only sequence on the header line
	InlineForm SequenceForm = iota
	// TabularForm uniform object sequence emitted as delimiter rows
	TabularForm
	// ListForm sequence emitted as "- " items
	ListForm
)

// String sequence form identifier to text
func (f SequenceForm) String() string {
	switch f {
	case InlineForm:
		return "Inline"
	case TabularForm:
		return "Tabular"
	case ListForm:
		return "List"
	}
	return ""
}

// Node type of node
type Node interface {
	// String node to text
	String() string
	// GetToken returns token instance
	GetToken() *token.Token
	// Type returns type of node
	Type() NodeType
}

// ScalarNode type for scalar node
type ScalarNode interface {
	Node
	GetValue() interface{}
}

// Null create node for null value
func Null(tk *token.Token) *NullNode {
	return &NullNode{Token: tk}
}

// Bool create node for boolean value
func Bool(tk *token.Token) *BoolNode {
	b, _ := strconv.ParseBool(tk.Value)
	return &BoolNode{
		Token: tk,
		Value: b,
	}
}

// Integer create node for integer value
func Integer(tk *token.Token) *IntegerNode {
	var v interface{}
	if i, err := strconv.ParseInt(tk.Value, 10, 64); err == nil {
		v = i
	} else if u, err := strconv.ParseUint(tk.Value, 10, 64); err == nil {
		v = u
	} else {
		// digits beyond uint64 range degrade to a float
		f, _ := strconv.ParseFloat(tk.Value, 64)
		v = f
	}
	return &IntegerNode{
		Token: tk,
		Value: v,
	}
}

// Float create node for float value
func Float(tk *token.Token) *FloatNode {
	f, _ := strconv.ParseFloat(tk.Value, 64)
	return &FloatNode{
		Token: tk,
		Value: f,
	}
}

// String create node for string value
func String(tk *token.Token) *StringNode {
	return &StringNode{
		Token: tk,
		Value: tk.Value,
	}
}

// Mapping create node for object
func Mapping(tk *token.Token, values ...*MappingValueNode) *MappingNode {
	return &MappingNode{
		Token:  tk,
		Values: values,
	}
}

// MappingValue create node for one key-value pair
func MappingValue(key *StringNode, value Node) *MappingValueNode {
	return &MappingValueNode{
		Key:   key,
		Value: value,
	}
}

// Sequence create node for array
func Sequence(tk *token.Token, form SequenceForm, values ...Node) *SequenceNode {
	return &SequenceNode{
		Token:  tk,
		Form:   form,
		Values: values,
	}
}

// NullNode type of null node
type NullNode struct {
	Token *token.Token
}

// Type returns NullType
func (n *NullNode) Type() NodeType { return NullType }

// GetToken returns token instance
func (n *NullNode) GetToken() *token.Token { return n.Token }

// GetValue returns nil value
func (n *NullNode) GetValue() interface{} { return nil }

// String null to text
func (n *NullNode) String() string { return "null" }

// BoolNode type of boolean node
type BoolNode struct {
	Token *token.Token
	Value bool
}

// Type returns BoolType
func (n *BoolNode) Type() NodeType { return BoolType }

// GetToken returns token instance
func (n *BoolNode) GetToken() *token.Token { return n.Token }

// GetValue returns boolean value
func (n *BoolNode) GetValue() interface{} { return n.Value }

// String boolean to text
func (n *BoolNode) String() string { return n.Token.Value }

// IntegerNode type of integer node
type IntegerNode struct {
	Token *token.Token
	Value interface{} // int64, uint64, or float64 beyond the uint64 range
}

// Type returns IntegerType
func (n *IntegerNode) Type() NodeType { return IntegerType }

// GetToken returns token instance
func (n *IntegerNode) GetToken() *token.Token { return n.Token }

// GetValue returns int64, uint64 or (beyond the uint64 range) float64 value
func (n *IntegerNode) GetValue() interface{} { return n.Value }

// String integer to text
func (n *IntegerNode) String() string { return n.Token.Value }

// FloatNode type of float node
type FloatNode struct {
	Token *token.Token
	Value float64
}

// Type returns FloatType
func (n *FloatNode) Type() NodeType { return FloatType }

// GetToken returns token instance
func (n *FloatNode) GetToken() *token.Token { return n.Token }

// GetValue returns float64 value
func (n *FloatNode) GetValue() interface{} { return n.Value }

// String float to text
func (n *FloatNode) String() string { return n.Token.Value }

// StringNode type of string node
type StringNode struct {
	Token *token.Token
	Value string
}

// Type returns StringType
func (n *StringNode) Type() NodeType { return StringType }

// GetToken returns token instance
func (n *StringNode) GetToken() *token.Token { return n.Token }

// GetValue returns string value
func (n *StringNode) GetValue() interface{} { return n.Value }

// IsQuoted whether the source spelled the string inside double quotes
func (n *StringNode) IsQuoted() bool {
	return n.Token != nil && n.Token.Type == token.DoubleQuoteType
}

// String string to text
func (n *StringNode) String() string {
	if n.IsQuoted() || token.IsNeedQuoted(n.Value, token.DefaultDelimiter) {
		return token.Quote(n.Value, false)
	}
	return n.Value
}

// MappingValueNode type of key-value pair node
type MappingValueNode struct {
	Key   *StringNode
	Value Node
}

// Type returns MappingValueType
func (n *MappingValueNode) Type() NodeType { return MappingValueType }

// GetToken returns token instance
func (n *MappingValueNode) GetToken() *token.Token { return n.Key.GetToken() }

// String key-value pair to text
func (n *MappingValueNode) String() string {
	return strings.Join(n.render(0), "\n")
}

func (n *MappingValueNode) render(depth int) []string {
	indent := strings.Repeat(" ", depth*2)
	switch v := n.Value.(type) {
	case *MappingNode:
		if len(v.Values) == 0 {
			return []string{indent + n.Key.String() + ":"}
		}
		lines := []string{indent + n.Key.String() + ":"}
		return append(lines, v.render(depth+1)...)
	case *SequenceNode:
		return v.render(n.Key.String(), depth)
	default:
		return []string{indent + n.Key.String() + ": " + n.Value.String()}
	}
}

// MappingNode type of object node
type MappingNode struct {
	Token  *token.Token
	Values []*MappingValueNode
}

// Type returns MappingType
func (n *MappingNode) Type() NodeType { return MappingType }

// GetToken returns token instance
func (n *MappingNode) GetToken() *token.Token { return n.Token }

// String object to text
func (n *MappingNode) String() string {
	return strings.Join(n.render(0), "\n")
}

func (n *MappingNode) render(depth int) []string {
	var lines []string
	for _, value := range n.Values {
		lines = append(lines, value.render(depth)...)
	}
	return lines
}

// SequenceNode type of array node
type SequenceNode struct {
	Token     *token.Token
	Form      SequenceForm
	Length    int
	Delimiter byte
	Fields    []string
	Values    []Node
}

// Type returns SequenceType
func (n *SequenceNode) Type() NodeType { return SequenceType }

// GetToken returns token instance
func (n *SequenceNode) GetToken() *token.Token { return n.Token }

// String array to text
func (n *SequenceNode) String() string {
	return strings.Join(n.render("", 0), "\n")
}

func (n *SequenceNode) render(key string, depth int) []string {
	indent := strings.Repeat(" ", depth*2)
	delim := n.Delimiter
	if delim == 0 {
		delim = token.DefaultDelimiter
	}
	header := key + "[" + strconv.Itoa(len(n.Values)) + "]"
	switch n.Form {
	case TabularForm:
		header += "{" + strings.Join(n.Fields, string(delim)) + "}:"
		lines := []string{indent + header}
		rowIndent := strings.Repeat(" ", (depth+1)*2)
		for _, value := range n.Values {
			row, ok := value.(*MappingNode)
			if !ok {
				continue
			}
			cells := make([]string, 0, len(row.Values))
			for _, field := range row.Values {
				cells = append(cells, field.Value.String())
			}
			lines = append(lines, rowIndent+strings.Join(cells, string(delim)))
		}
		return lines
	case InlineForm:
		header += ":"
		if len(n.Values) == 0 {
			return []string{indent + header}
		}
		cells := make([]string, 0, len(n.Values))
		for _, value := range n.Values {
			cells = append(cells, value.String())
		}
		return []string{indent + header + " " + strings.Join(cells, string(delim))}
	default:
		header += ":"
		lines := []string{indent + header}
		itemIndent := strings.Repeat(" ", (depth+1)*2)
		for _, value := range n.Values {
			lines = append(lines, itemIndent+"- "+strings.TrimLeft(value.String(), " "))
		}
		return lines
	}
}
