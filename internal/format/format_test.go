package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type sample struct {
	ID    string   `json:"id"`
	Count int      `json:"count"`
	Ratio float64  `json:"ratio"`
	Tags  []string `json:"tags"`
	Done  bool     `json:"done"`
	Note  *string  `json:"note"`
}

type rows [][]string

func (r rows) Headers() []string { return []string{"ID", "TITLE"} }
func (r rows) Rows() [][]string  { return r }

func TestWriteJSON_Envelope(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Envelope{Data: []int{1, 2}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), "{\"data\":[1,2]}\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWriteEDN(t *testing.T) {
	var buf bytes.Buffer
	v := sample{ID: "task-1", Count: 3, Ratio: 0.5, Tags: []string{"a", "b"}, Done: true}
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := `{:count 3 :done true :id "task-1" :note nil :ratio 0.5 :tags ["a" "b"]}` + "\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}

	buf.Reset()
	if err := WriteEDN(&buf, map[string]any{"xs": []int{}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	if got, want := buf.String(), "{\n  :xs []\n}\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWriteTable(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var buf bytes.Buffer
	if err := Write(&buf, Envelope{Data: rows{{"task-1", "Design new homepage"}}}, Table, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ID", "TITLE", "task-1", "Design new homepage"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table output:\n%s", want, out)
		}
	}

	if err := Write(&buf, sample{}, Table, false); !errors.Is(err, ErrNotTabular) {
		t.Fatalf("expected ErrNotTabular, got %v", err)
	}
	if err := Write(&buf, sample{}, "yaml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
