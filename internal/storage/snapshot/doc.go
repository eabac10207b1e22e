// Package snapshot persists the Rolodex document.
//
// A document carries the whole state of an index: the longest key ever
// stored, the records, and the trie itself.
//
//	{
//	  "maxLength": 10,
//	  "data":  {"John Smith": {"emails": ["john@x.com"]}},
//	  "index": {"J": {...}, "nn": 3}
//	}
//
// FileStore keeps one document on disk and replaces it atomically
// (temp file, fsync, rename). With a passphrase the document is sealed:
//
//	[magic:8 "RLDXSEAL"][version:1][cipher:1][salt:16][nonce|ciphertext|tag]
//
// The key is derived from the passphrase with Argon2id; the header bytes
// are bound to the ciphertext as additional data.
//
// Archive keeps timestamped, zstd-compressed backups named
// backup-<ULID>.json.zst and prunes them down to a retention count.
package snapshot
