// Package domain defines the core domain models for Rolodex.
//
// Domain models are pure values without any IO dependencies or
// framework coupling. This package contains:
//
//   - Record: the categorized attribute lists stored for one contact
//   - Entry: a classified insertion request (key + attribute updates)
//   - Result: a search hit, a record tagged with its key
//   - Errors: domain-specific error definitions
package domain
