// Package storage provides the storage engine for Rolodex.
//
// The engine owns one contact index (a token trie plus the record store)
// and keeps it in step with a persistent document:
//
//   - Backend: where the document lives, a JSON file or a Badger key
//   - Archive: compressed, optionally sealed backups next to the document
//   - Metrics: operation counters and index gauges on a Prometheus registry
//
// Every call on the Engine is serialized; searches share a read lock.
package storage
