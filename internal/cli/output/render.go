package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"
)

// Format represents the output format.
type Format string

const (
	FormatRaw   Format = "raw"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// RenderStats renders a STATS reply in the requested format. The reply
// is the server's single-line JSON object.
func RenderStats(reply, format string) (string, error) {
	switch Format(format) {
	case FormatRaw, "":
		return reply + "\n", nil
	case FormatJSON:
		return indentJSON(reply)
	case FormatTable:
		var stats struct {
			Keys        int    `json:"keys"`
			MemoryBytes uint64 `json:"memory_bytes"`
		}
		if err := json.Unmarshal([]byte(reply), &stats); err != nil {
			return "", fmt.Errorf("parse stats reply: %w", err)
		}
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "KEYS\tMEMORY_BYTES\n")
		fmt.Fprintf(w, "%d\t%d\n", stats.Keys, stats.MemoryBytes)
		if err := w.Flush(); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// RenderKeys renders a KEYS reply in the requested format. The reply is
// the server's single-line JSON array.
func RenderKeys(reply, format string) (string, error) {
	switch Format(format) {
	case FormatRaw, "":
		return reply + "\n", nil
	case FormatJSON:
		return indentJSON(reply)
	case FormatTable:
		var keys []string
		if err := json.Unmarshal([]byte(reply), &keys); err != nil {
			return "", fmt.Errorf("parse keys reply: %w", err)
		}
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "KEY\n")
		for _, k := range keys {
			fmt.Fprintln(&buf, k)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func indentJSON(raw string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return "", fmt.Errorf("indent reply: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
