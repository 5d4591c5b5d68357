package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON  = "json"
	EDN   = "edn"
	Table = "table"
)

// Envelope is the shape of every command response.
// Meta carries counts and hints for fetching more; it never changes Data.
type Envelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// Valid reports whether f is a supported output format.
func Valid(f string) bool {
	switch strings.TrimSpace(f) {
	case "", JSON, EDN, Table:
		return true
	}
	return false
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - table (payloads implementing Tabular only)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.TrimSpace(format) {
	case "", JSON:
		return WriteJSON(w, v, pretty)
	case EDN:
		return WriteEDN(w, v, pretty)
	case Table:
		return WriteTable(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON; pretty indents with two spaces.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
