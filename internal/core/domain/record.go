package domain

import (
	"slices"
	"strings"
)

// Category names one attribute list of a record.
type Category string

// Attribute categories, in the order they are reported and indexed.
const (
	CategoryAliases Category = "aliases"
	CategoryEmails  Category = "emails"
	CategorySocials Category = "socials"
	CategoryNumbers Category = "numbers"
)

// Categories lists every attribute category in canonical order.
var Categories = []Category{
	CategoryAliases,
	CategoryEmails,
	CategorySocials,
	CategoryNumbers,
}

// KeySeparator separates the words of a multi-word record key.
const KeySeparator = " "

// Record holds the attribute lists of one contact.
//
// Each list is an insertion-ordered set: values keep the order in which
// they were first added and never repeat.
type Record struct {
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Emails  []string `json:"emails,omitempty" yaml:"emails,omitempty"`
	Socials []string `json:"socials,omitempty" yaml:"socials,omitempty"`
	Numbers []string `json:"numbers,omitempty" yaml:"numbers,omitempty"`
}

// list returns a pointer to the slice backing the given category.
func (r *Record) list(c Category) *[]string {
	switch c {
	case CategoryAliases:
		return &r.Aliases
	case CategoryEmails:
		return &r.Emails
	case CategorySocials:
		return &r.Socials
	case CategoryNumbers:
		return &r.Numbers
	default:
		return nil
	}
}

// Values returns the values recorded under a category.
func (r *Record) Values(c Category) []string {
	if l := r.list(c); l != nil {
		return *l
	}
	return nil
}

// Has reports whether value is recorded under the category.
func (r *Record) Has(c Category, value string) bool {
	return slices.Contains(r.Values(c), value)
}

// Add appends value to the category unless it is already present.
// It reports whether the record changed.
func (r *Record) Add(c Category, value string) bool {
	l := r.list(c)
	if l == nil || slices.Contains(*l, value) {
		return false
	}
	*l = append(*l, value)
	return true
}

// Merge adds every value of other into r, category by category.
// It returns the values that were not present before, in merge order.
func (r *Record) Merge(other *Record) []string {
	if other == nil {
		return nil
	}
	var added []string
	for _, c := range Categories {
		for _, v := range other.Values(c) {
			if r.Add(c, v) {
				added = append(added, v)
			}
		}
	}
	return added
}

// Each calls fn for every value of the record in canonical category order.
func (r *Record) Each(fn func(c Category, value string)) {
	for _, c := range Categories {
		for _, v := range r.Values(c) {
			fn(c, v)
		}
	}
}

// Len returns the total number of values across all categories.
func (r *Record) Len() int {
	return len(r.Aliases) + len(r.Emails) + len(r.Socials) + len(r.Numbers)
}

// IsEmpty reports whether the record holds no values.
func (r *Record) IsEmpty() bool {
	return r.Len() == 0
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		Aliases: slices.Clone(r.Aliases),
		Emails:  slices.Clone(r.Emails),
		Socials: slices.Clone(r.Socials),
		Numbers: slices.Clone(r.Numbers),
	}
}

// Entry is a classified insertion request.
type Entry struct {
	// Key is the canonical (possibly multi-word) name of the contact.
	Key string

	// Attributes holds the values to merge into the contact's record.
	Attributes Record
}

// Result is a search hit: a record tagged with its key.
type Result struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Emails  []string `json:"emails,omitempty" yaml:"emails,omitempty"`
	Socials []string `json:"socials,omitempty" yaml:"socials,omitempty"`
	Numbers []string `json:"numbers,omitempty" yaml:"numbers,omitempty"`
}

// NewResult builds a Result from a key and its record.
func NewResult(key string, r *Record) Result {
	res := Result{Name: key}
	if r != nil {
		c := r.Clone()
		res.Aliases = c.Aliases
		res.Emails = c.Emails
		res.Socials = c.Socials
		res.Numbers = c.Numbers
	}
	return res
}

// Record returns the attribute part of the result.
func (r Result) Record() *Record {
	return &Record{
		Aliases: r.Aliases,
		Emails:  r.Emails,
		Socials: r.Socials,
		Numbers: r.Numbers,
	}
}

// KeyWords splits a record key into its words.
func KeyWords(key string) []string {
	return strings.Split(key, KeySeparator)
}
