package repl

import (
	"fmt"
	"slices"
	"strings"
)

// Builtins are handled by the loop itself.
var Builtins = []string{"exit", "quit", "history"}

// Completer resolves abbreviated command names.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over command paths such as "search"
// or "backup create". The loop builtins are always included.
func NewCompleter(commands []string) *Completer {
	all := slices.Concat(commands, Builtins)
	slices.Sort(all)
	return &Completer{commands: slices.Compact(all)}
}

// Commands returns every known command path, sorted.
func (c *Completer) Commands() []string {
	return slices.Clone(c.commands)
}

// Complete returns the command paths starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Resolve maps a first word to a top-level command: an exact name wins,
// otherwise the word must be the prefix of exactly one command.
func (c *Completer) Resolve(word string) (string, error) {
	var matches []string
	for _, cmd := range c.commands {
		if strings.Contains(cmd, " ") {
			continue
		}
		if cmd == word {
			return cmd, nil
		}
		if word != "" && strings.HasPrefix(cmd, word) {
			matches = append(matches, cmd)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unknown command %q (try help)", word)
	default:
		return "", fmt.Errorf("ambiguous command %q: %s", word, strings.Join(matches, ", "))
	}
}
