// Package main provides the entry point for rolodex.
//
// rolodex keeps a prefix-searchable index of contacts in a JSON document
// (or a badger store) and answers lookups by any prefix of a name word,
// alias, email, social handle or number:
//
//	rolodex add John Smith @johnny john@example.com 5551234
//	rolodex search Jo
//	rolodex -o json search @jo
//	rolodex remove John
//	rolodex backup create
//	rolodex shell
//
// Configuration comes from ~/.rolodex/config.yaml (or --config), ROLODEX_*
// environment variables and flags, in increasing priority.
package main
