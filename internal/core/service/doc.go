// Package service provides domain services for Rolodex.
//
// Domain services contain the business logic that keeps the prefix index
// and the record store consistent with each other. They define the
// storage interfaces they depend on, so the concrete trie and store are
// injected by the caller.
//
// This package contains:
//
//   - IndexService: contact insertion, prefix search and removal
//
// Services are not safe for concurrent use; the storage engine
// serializes every call.
package service
