package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"SET", "GET", "DEL", "STATS", "KEYS", "PING", "QUIT",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
// Matching is case-insensitive for command names.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), strings.ToLower(prefix)) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
