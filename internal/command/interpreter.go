package command

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/minikv/minikv-go/internal/storage"
)

// maxTokens bounds how many whitespace-delimited tokens a line is split
// into. Only the first two ever carry meaning; the rest are discarded.
const maxTokens = 10

// Canonical reply strings.
const (
	replyOK       = "OK"
	replyPong     = "PONG"
	replyBye      = "BYE"
	replyNull     = "NULL"
	replyNotFound = "NOT FOUND"
)

// Result is the outcome of interpreting one line. Text is written back
// to the client followed by a newline; Close tells the transport to drop
// the connection after the reply goes out.
type Result struct {
	Text  string
	Close bool
}

// Interpreter maps the textual command set onto store operations.
type Interpreter struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates an interpreter bound to a store.
func New(store storage.Store, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{store: store, logger: logger}
}

// Interpret parses and executes one newline-stripped line of text.
func (it *Interpreter) Interpret(line string) Result {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Result{Text: "ERROR: Empty command"}
	}

	tokens := splitTokens(trimmed)
	name := strings.ToUpper(tokens[0])

	switch name {
	case "SET":
		return it.set(trimmed, tokens)
	case "GET":
		return it.get(tokens)
	case "DEL":
		return it.del(tokens)
	case "STATS":
		return it.stats()
	case "KEYS":
		return it.keys()
	case "PING":
		return Result{Text: replyPong}
	case "QUIT":
		return Result{Text: replyBye, Close: true}
	default:
		return Result{Text: fmt.Sprintf("ERROR: Unknown command '%s'", name)}
	}
}

// set handles SET key value.
//
// The value is not the third token: it is everything in the trimmed line
// after the key token and the whitespace run that follows it, verbatim.
// That keeps interior whitespace in values ("SET greeting hello world"
// stores "hello world").
func (it *Interpreter) set(trimmed string, tokens []string) Result {
	if len(tokens) < 3 {
		return Result{Text: "ERROR: SET requires key and value"}
	}

	key := tokens[1]
	value := restAfterKey(trimmed)
	if value == "" {
		return Result{Text: "ERROR: SET requires a value"}
	}

	if err := it.store.Set([]byte(key), []byte(value)); err != nil {
		it.logger.Warn("set rejected", "key", key, "error", err)
		return Result{Text: "ERROR: Failed to set value"}
	}

	it.logger.Info("set", "key", key, "value_bytes", len(value))
	return Result{Text: replyOK}
}

// get handles GET key.
func (it *Interpreter) get(tokens []string) Result {
	if len(tokens) < 2 {
		return Result{Text: "ERROR: GET requires a key"}
	}

	key := tokens[1]
	value, ok := it.store.Get([]byte(key))
	if !ok {
		it.logger.Info("get", "key", key, "found", false)
		return Result{Text: replyNull}
	}

	it.logger.Info("get", "key", key, "found", true)
	return Result{Text: string(value)}
}

// del handles DEL key.
func (it *Interpreter) del(tokens []string) Result {
	if len(tokens) < 2 {
		return Result{Text: "ERROR: DEL requires a key"}
	}

	key := tokens[1]
	if !it.store.Delete([]byte(key)) {
		it.logger.Info("del", "key", key, "found", false)
		return Result{Text: replyNotFound}
	}

	it.logger.Info("del", "key", key, "found", true)
	return Result{Text: replyOK}
}

// stats handles STATS. The reply shape is fixed wire format.
func (it *Interpreter) stats() Result {
	st := it.store.Stats()
	return Result{Text: fmt.Sprintf(`{"keys": %d, "memory_bytes": %d}`, st.Keys, st.MemoryBytes)}
}

// keys handles KEYS, returning a single-line JSON array of key strings.
func (it *Interpreter) keys() Result {
	data, err := json.Marshal(it.store.Keys())
	if err != nil {
		return Result{Text: "ERROR: Memory allocation failed"}
	}
	return Result{Text: string(data)}
}

// splitTokens splits a trimmed line on runs of whitespace into at most
// maxTokens tokens; anything beyond the cap is dropped.
func splitTokens(s string) []string {
	tokens := strings.Fields(s)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}
	return tokens
}

// restAfterKey returns the remainder of a trimmed line after skipping
// the command token, the key token, and the whitespace runs after each.
func restAfterKey(s string) string {
	s = skipToken(s)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = skipToken(s)
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func skipToken(s string) string {
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[i:]
	}
	return ""
}
