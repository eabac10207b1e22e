// Package trie provides the reference-counted, multi-key prefix index
// at the heart of Rolodex.
//
// An Index maps token strings to sets of record keys. Every node counts
// the live (token, key) insertions whose path passes through it, so a
// single association can be removed without disturbing prefixes that
// other tokens still share: when a node's count would drop to zero the
// whole subtree below it is detached in one step.
//
// Tokens are walked rune by rune. Children are visited in the order they
// were first created, which makes SearchPrefix deterministic for a given
// insertion history; callers must not rely on any other ordering.
//
// An Index is not safe for concurrent use. Callers serialize mutations
// and must not search while a mutation is in flight.
//
// The JSON form of an Index is the nested object format used by the
// persisted document:
//
//	{"J": {"o": {... "nn": 1, "results": ["John"]}, "nn": 2}, "nn": 2}
package trie
