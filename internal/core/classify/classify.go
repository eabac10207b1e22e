package classify

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/rolodex/internal/core/domain"
)

// Kind is the classification of a single input word.
type Kind int

// Word kinds.
const (
	KindWord Kind = iota
	KindSeparator
	KindSocial
	KindEmail
	KindNumber
)

// Separator ends the name part of an input line.
const Separator = "/"

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindSeparator:
		return "separator"
	case KindSocial:
		return "social"
	case KindEmail:
		return "email"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// Category returns the record category a value of this kind is stored
// under once the name is complete. Words become aliases; the separator
// has no category.
func (k Kind) Category() (domain.Category, bool) {
	switch k {
	case KindWord:
		return domain.CategoryAliases, true
	case KindSocial:
		return domain.CategorySocials, true
	case KindEmail:
		return domain.CategoryEmails, true
	case KindNumber:
		return domain.CategoryNumbers, true
	default:
		return "", false
	}
}

// Classify returns the kind of a single word.
func Classify(word string) Kind {
	switch {
	case word == Separator:
		return KindSeparator
	case strings.HasPrefix(word, "@"):
		return KindSocial
	case strings.Contains(word, "@"):
		return KindEmail
	case isNumber(word):
		return KindNumber
	default:
		return KindWord
	}
}

// isNumber accepts decimal and exponent notation only. Hexadecimal
// literals and the spellings of NaN and infinity are words.
func isNumber(word string) bool {
	if strings.ContainsAny(word, "xX") {
		return false
	}
	f, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Parse classifies every word of input and assembles the entry.
// Empty fields between repeated spaces are skipped. A value repeated in
// the same category is kept once. Input that is not valid UTF-8 is
// rejected with domain.ErrInvalidText.
func Parse(input string) (*domain.Entry, error) {
	if !utf8.ValidString(input) {
		return nil, domain.ErrInvalidText.WithDetails("input is not valid UTF-8")
	}

	var (
		name    []string
		nameEnd bool
		entry   domain.Entry
	)

	for _, word := range strings.Split(input, " ") {
		if word == "" {
			continue
		}
		kind := Classify(word)
		if kind == KindWord && !nameEnd {
			name = append(name, word)
			continue
		}

		nameEnd = true
		if c, ok := kind.Category(); ok {
			entry.Attributes.Add(c, word)
		}
	}

	if len(name) == 0 {
		return nil, domain.ErrEmptyKey.WithDetails("input has no leading name words")
	}
	entry.Key = strings.Join(name, domain.KeySeparator)
	return &entry, nil
}
