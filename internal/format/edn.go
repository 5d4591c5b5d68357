package format

import (
	"encoding/json"
	"io"
	"slices"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through encoding/json first, so json
// tags decide key names; object keys become keywords in sorted order.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	var sb strings.Builder
	writeEDNValue(&sb, x, 0, pretty)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeEDNValue(sb *strings.Builder, v any, depth int, pretty bool) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		writeEDNSeq(sb, "[", "]", len(t), depth, pretty, func(i int) {
			writeEDNValue(sb, t[i], depth+1, pretty)
		})
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		writeEDNSeq(sb, "{", "}", len(keys), depth, pretty, func(i int) {
			sb.WriteByte(':')
			sb.WriteString(ednKeyword(keys[i]))
			sb.WriteByte(' ')
			writeEDNValue(sb, t[keys[i]], depth+1, pretty)
		})
	}
}

func writeEDNSeq(sb *strings.Builder, open, close string, n, depth int, pretty bool, item func(i int)) {
	sb.WriteString(open)
	for i := 0; i < n; i++ {
		switch {
		case pretty:
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			sb.WriteByte(' ')
		}
		item(i)
	}
	if pretty && n > 0 {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth))
	}
	sb.WriteString(close)
}

func ednKeyword(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
