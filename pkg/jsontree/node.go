package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Kind tags the variant held by a Node
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Member is one key/value pair of an object, in source order
type Member struct {
	Key   string
	Value *Node
}

// Node is a parsed JSON value
type Node struct {
	Kind    Kind
	Str     string
	Num     json.Number
	Boolean bool
	Items   []*Node
	Members []Member
}

// Parse decodes data into a Node tree. Trailing data after the first value
// is an error.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return root, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return &Node{Kind: String, Str: v}, nil
	case json.Number:
		return &Node{Kind: Number, Num: v}, nil
	case bool:
		return &Node{Kind: Bool, Boolean: v}, nil
	case nil:
		return &Node{Kind: Null}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: Object}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not string", tok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Members = append(n.Members, Member{Key: key, Value: value})
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: Array}
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, item)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns the value of key on an object node. Duplicate keys resolve to
// the last occurrence, as encoding/json does. It is nil-safe and returns nil
// for non-objects and missing keys.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != Object {
		return nil
	}
	var found *Node
	for _, m := range n.Members {
		if m.Key == key {
			found = m.Value
		}
	}
	return found
}

// Has reports whether an object node has a member named key
func (n *Node) Has(key string) bool {
	if n == nil || n.Kind != Object {
		return false
	}
	for _, m := range n.Members {
		if m.Key == key {
			return true
		}
	}
	return false
}

// AsString returns the string value and whether the node is a string
func (n *Node) AsString() (string, bool) {
	if n == nil || n.Kind != String {
		return "", false
	}
	return n.Str, true
}

// AsBool returns the boolean value and whether the node is a bool
func (n *Node) AsBool() (bool, bool) {
	if n == nil || n.Kind != Bool {
		return false, false
	}
	return n.Boolean, true
}

// MarshalJSON encodes the node back to JSON keeping member order
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if n.Boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(n.Num.String())
	case String:
		b, err := json.Marshal(n.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %s", n.Kind)
	}
	return nil
}
