// Package command implements the minikv command interpreter.
//
// It parses one line of text into a command and arguments, dispatches to
// the store, and formats a single-line textual reply. Supported commands:
//
//   - SET key value
//   - GET key
//   - DEL key
//   - STATS
//   - KEYS
//   - PING
//   - QUIT
//
// The interpreter holds no state beyond the store reference and has no
// knowledge of the transport; the connection loop hands it raw lines and
// writes back whatever it returns.
package command
