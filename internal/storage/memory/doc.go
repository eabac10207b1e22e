// Package memory provides the in-memory record store of Rolodex.
//
// A Store maps each record key (the contact's canonical name) to its
// categorized attribute lists and tracks the longest key ever stored.
// That bound only grows: deleting the longest record leaves it in place,
// so it is a fast rejection threshold for over-long queries rather than
// an exact maximum.
//
// Thread Safety:
//
// A Store is not safe for concurrent use. It is mutated only through the
// index service, whose caller serializes access.
package memory
