// Package classify turns a free-form input line into a contact entry.
//
// Each space-separated word is classified on its own:
//
//	/          separator: ends the name without adding a value
//	@handle    social
//	a@b.c      email
//	5551234    number (anything that parses as a finite float)
//	other      word
//
// Leading words form the contact's name. The first non-word token ends
// the name; words after it become aliases.
package classify
