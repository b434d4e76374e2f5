package logtail

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log record.
type Entry struct {
	Time    string
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
}

// reserved keys are written by the encoder and shown in fixed positions.
var reserved = []string{"ts", "level", "logger", "msg", "caller", "stacktrace"}

// Parse decodes a JSON log line. ok is false for lines that are not JSON
// objects.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return Entry{}, false
	}
	e := Entry{
		Time:    stringField(raw, "ts"),
		Level:   strings.ToUpper(stringField(raw, "level")),
		Logger:  stringField(raw, "logger"),
		Message: stringField(raw, "msg"),
	}
	for _, key := range reserved {
		delete(raw, key)
	}
	if len(raw) > 0 {
		e.Fields = raw
	}
	return e, true
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// String renders the entry as a single plain line.
func (e Entry) String() string {
	var b strings.Builder
	writeParts(&b, e, func(_ string, s string) string { return s })
	return b.String()
}

// Format renders a raw log line. Lines that are not JSON come back unchanged.
func Format(line string) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	return e.String()
}

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	levelStyle = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

// Highlight is Format with terminal colours for the time, level, logger and
// field keys.
func Highlight(line string) string {
	e, ok := Parse(line)
	if !ok {
		return line
	}
	var b strings.Builder
	writeParts(&b, e, func(part, s string) string {
		switch part {
		case "time":
			return timeStyle.Render(s)
		case "level":
			if st, ok := levelStyle[e.Level]; ok {
				return st.Render(s)
			}
		case "logger":
			return nameStyle.Render(s)
		case "key":
			return keyStyle.Render(s)
		}
		return s
	})
	return b.String()
}

func writeParts(b *strings.Builder, e Entry, style func(part, s string) string) {
	sep := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}
	if e.Time != "" {
		b.WriteString(style("time", e.Time))
	}
	if e.Level != "" {
		sep()
		b.WriteString(style("level", fmt.Sprintf("%-5s", e.Level)))
	}
	if e.Logger != "" {
		sep()
		b.WriteString(style("logger", "["+e.Logger+"]"))
	}
	if e.Message != "" {
		sep()
		b.WriteString(e.Message)
	}
	for _, key := range slices.Sorted(maps.Keys(e.Fields)) {
		sep()
		b.WriteString(style("key", key+"="))
		b.WriteString(fieldValue(e.Fields[key]))
	}
}

func fieldValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case json.Number:
		return val.String()
	case nil:
		return "null"
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(val); err != nil {
			return fmt.Sprint(val)
		}
		return strings.TrimSpace(buf.String())
	}
}
