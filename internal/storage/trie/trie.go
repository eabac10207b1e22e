package trie

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Index errors.
var (
	ErrEmptyToken   = errors.New("trie: empty token")
	ErrInvalidToken = errors.New("trie: token is not valid UTF-8")
	ErrNotIndexed   = errors.New("trie: token not indexed for key")
	ErrCorrupt      = errors.New("trie: corrupt index")
)

// node is one trie node. It exclusively owns its children.
type node struct {
	children map[rune]*node
	order    []rune // child runes in creation order
	refs     int    // live insertions passing through this node
	keys     []string
}

func (n *node) child(r rune) *node {
	if n.children == nil {
		return nil
	}
	return n.children[r]
}

func (n *node) addChild(r rune) *node {
	if n.children == nil {
		n.children = make(map[rune]*node)
	}
	c := &node{}
	n.children[r] = c
	n.order = append(n.order, r)
	return c
}

func (n *node) dropChild(r rune) {
	delete(n.children, r)
	if i := slices.Index(n.order, r); i >= 0 {
		n.order = slices.Delete(n.order, i, i+1)
	}
}

func (n *node) hasKey(key string) bool {
	return slices.Contains(n.keys, key)
}

// Index is a character trie mapping tokens to record keys.
// The zero value is an empty index ready to use.
type Index struct {
	root *node
}

func (ix *Index) top() *node {
	if ix.root == nil {
		ix.root = &node{}
	}
	return ix.root
}

// New creates an empty index.
func New() *Index {
	return &Index{root: &node{}}
}

// Reset discards every entry.
func (ix *Index) Reset() {
	ix.root = &node{}
}

// Insert associates token with key. Tokens must be valid UTF-8, since
// children are keyed by rune and every invalid byte decodes to U+FFFD.
//
// Every node on the token's path, root and terminal included, gains one
// reference per call, while the key is recorded at the terminal node at
// most once. Callers must therefore insert a given (token, key) pair only
// once; a repeated call leaves references that no single Remove undoes.
func (ix *Index) Insert(token, key string) error {
	if err := checkToken(token); err != nil {
		return err
	}

	n := ix.top()
	n.refs++
	for _, r := range token {
		c := n.child(r)
		if c == nil {
			c = n.addChild(r)
		}
		c.refs++
		n = c
	}

	if !n.hasKey(key) {
		n.keys = append(n.keys, key)
	}
	return nil
}

// Remove drops the association between token and key.
//
// It returns ErrNotIndexed, without modifying the index, when the token's
// path does not exist or key is not recorded at its terminal node.
// Otherwise every node on the path loses one reference; the first node
// left with none is detached from its parent together with its subtree.
func (ix *Index) Remove(token, key string) error {
	if err := checkToken(token); err != nil {
		return err
	}
	if term := ix.find(token); term == nil || !term.hasKey(key) {
		return ErrNotIndexed
	}

	if ix.root.refs <= 1 {
		ix.root = &node{}
		return nil
	}
	ix.root.refs--

	parent := ix.root
	for _, r := range token {
		n := parent.children[r]
		if n.refs <= 1 {
			parent.dropChild(r)
			return nil
		}
		n.refs--
		parent = n
	}

	i := slices.Index(parent.keys, key)
	parent.keys = slices.Delete(parent.keys, i, i+1)
	if len(parent.keys) == 0 {
		parent.keys = nil
	}
	return nil
}

// SearchPrefix returns up to max distinct keys reachable from tokens that
// start with prefix.
//
// The subtree below the prefix is walked depth-first; a node's own keys
// are reported before those of its children, and children are visited in
// creation order. The walk stops as soon as max keys have been found.
// An empty or invalid prefix, a missing path or max <= 0 yield no keys.
func (ix *Index) SearchPrefix(prefix string, max int) []string {
	if prefix == "" || max <= 0 {
		return nil
	}
	n := ix.find(prefix)
	if n == nil {
		return nil
	}

	c := collector{max: max, seen: make(map[string]struct{})}
	c.walk(n)
	return c.out
}

type collector struct {
	max  int
	seen map[string]struct{}
	out  []string
}

// walk reports whether the walk should stop.
func (c *collector) walk(n *node) bool {
	for _, k := range n.keys {
		if _, ok := c.seen[k]; ok {
			continue
		}
		c.seen[k] = struct{}{}
		c.out = append(c.out, k)
		if len(c.out) >= c.max {
			return true
		}
	}
	for _, r := range n.order {
		if c.walk(n.children[r]) {
			return true
		}
	}
	return false
}

// Contains reports whether token is indexed for key.
func (ix *Index) Contains(token, key string) bool {
	if token == "" {
		return false
	}
	n := ix.find(token)
	return n != nil && n.hasKey(key)
}

// Keys returns the keys recorded at exactly token, in insertion order.
func (ix *Index) Keys(token string) []string {
	if token == "" {
		return nil
	}
	n := ix.find(token)
	if n == nil {
		return nil
	}
	return slices.Clone(n.keys)
}

// RefCount returns the reference count of the node reached by prefix, or
// 0 when no such node exists. The empty prefix addresses the root.
func (ix *Index) RefCount(prefix string) int {
	n := ix.find(prefix)
	if n == nil {
		return 0
	}
	return n.refs
}

// Len returns the number of live insertions.
func (ix *Index) Len() int {
	return ix.top().refs
}

// Nodes returns the number of nodes below the root.
func (ix *Index) Nodes() int {
	return countNodes(ix.top()) - 1
}

func countNodes(n *node) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}

// Verify checks the structural invariants of the index: every non-root
// node is referenced, serves at least one key somewhere below it, and
// carries at least as many references as its children plus its own keys.
func (ix *Index) Verify() error {
	return verify(ix.top(), "", true)
}

func verify(n *node, path string, root bool) error {
	if !root && n.refs < 1 {
		return fmt.Errorf("%w: node %q has %d references", ErrCorrupt, path, n.refs)
	}
	if !root && len(n.children) == 0 && len(n.keys) == 0 {
		return fmt.Errorf("%w: dangling node %q", ErrCorrupt, path)
	}
	if len(n.order) != len(n.children) {
		return fmt.Errorf("%w: node %q child order out of sync", ErrCorrupt, path)
	}

	sum := len(n.keys)
	for _, r := range n.order {
		c, ok := n.children[r]
		if !ok {
			return fmt.Errorf("%w: node %q child order out of sync", ErrCorrupt, path)
		}
		sum += c.refs
		if err := verify(c, path+string(r), false); err != nil {
			return err
		}
	}
	if n.refs < sum {
		return fmt.Errorf("%w: node %q has %d references, needs at least %d", ErrCorrupt, path, n.refs, sum)
	}
	return nil
}

func checkToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !utf8.ValidString(token) {
		return ErrInvalidToken
	}
	return nil
}

// find returns the node reached by token, or nil when the path is absent
// or token is not valid UTF-8.
func (ix *Index) find(token string) *node {
	if !utf8.ValidString(token) {
		return nil
	}
	n := ix.top()
	for _, r := range token {
		if n = n.child(r); n == nil {
			return nil
		}
	}
	return n
}
