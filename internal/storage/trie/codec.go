package trie

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Reserved member names of an encoded node. Child members are keyed by a
// single rune and can never collide with them.
const (
	fieldRefs    = "nn"
	fieldResults = "results"
)

// MarshalJSON encodes the index as nested objects: one member per child
// (in creation order), then "nn", then "results" when keys end here.
func (ix *Index) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, ix.top()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n *node) error {
	buf.WriteByte('{')
	for _, r := range n.order {
		name, err := json.Marshal(string(r))
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if err := encodeNode(buf, n.children[r]); err != nil {
			return err
		}
		buf.WriteByte(',')
	}

	buf.WriteString(`"` + fieldRefs + `":`)
	buf.WriteString(strconv.Itoa(n.refs))

	if len(n.keys) > 0 {
		keys, err := json.Marshal(n.keys)
		if err != nil {
			return err
		}
		buf.WriteString(`,"` + fieldResults + `":`)
		buf.Write(keys)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON replaces the index with the decoded document. Member
// order is preserved as child order, and a child whose value is null is
// treated as absent. A null document leaves the index as it is.
//
// The decoded tree must satisfy Verify; otherwise ErrCorrupt is returned
// and the index is unchanged.
func (ix *Index) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	root, err := decodeNode(dec, "")
	if err != nil {
		return err
	}
	if root == nil {
		return nil
	}

	candidate := &Index{root: root}
	if err := candidate.Verify(); err != nil {
		return err
	}
	ix.root = root
	return nil
}

// decodeNode reads one node. A null value yields a nil node.
func decodeNode(dec *json.Decoder, path string) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: node %q: %v", ErrCorrupt, path, err)
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: node %q: expected %q, got %v", ErrCorrupt, path, json.Delim('{'), tok)
	}

	n := &node{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: node %q: unexpected %v", ErrCorrupt, path, tok)
		}

		switch name {
		case fieldRefs:
			if err := dec.Decode(&n.refs); err != nil {
				return nil, fmt.Errorf("%w: node %q: nn: %v", ErrCorrupt, path, err)
			}
		case fieldResults:
			var keys []string
			if err := dec.Decode(&keys); err != nil {
				return nil, fmt.Errorf("%w: node %q: results: %v", ErrCorrupt, path, err)
			}
			for _, k := range keys {
				if !slices.Contains(n.keys, k) {
					n.keys = append(n.keys, k)
				}
			}
		default:
			r, size := utf8.DecodeRuneInString(name)
			if name == "" || size != len(name) {
				return nil, fmt.Errorf("%w: node %q: invalid member %q", ErrCorrupt, path, name)
			}
			if n.child(r) != nil {
				return nil, fmt.Errorf("%w: node %q: duplicate child %q", ErrCorrupt, path, name)
			}
			child, err := decodeNode(dec, path+name)
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			if n.children == nil {
				n.children = make(map[rune]*node)
			}
			n.children[r] = child
			n.order = append(n.order, r)
		}
	}

	if err := expectDelim(dec, '}', path); err != nil {
		return nil, err
	}
	return n, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: node %q: %v", ErrCorrupt, path, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: node %q: expected %q, got %v", ErrCorrupt, path, want, tok)
	}
	return nil
}
