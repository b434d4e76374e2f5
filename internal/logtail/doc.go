// Package logtail reads the tail of the cadre log file and renders its JSON
// records as readable lines.
//
// # Reading
//
// Read keeps a ring buffer of maxLines entries and scans the file once, so
// memory stays at O(maxLines) regardless of file size. Lines come back in
// file order. A missing file is not an error; it yields no lines.
//
//	lines, err := logtail.Read("~/.local/state/cadre/cadre.log", 200)
//
// # Formatting
//
// The logger writes one JSON object per line:
//
//	{"level":"error","ts":"2024-06-01T10:00:00.000Z","logger":"cadre","msg":"create failed","error":"timeout"}
//
// Format turns that into
//
//	2024-06-01T10:00:00.000Z ERROR [cadre] create failed error=timeout
//
// Extra fields are appended as key=value pairs in key order. caller and
// stacktrace are dropped. Lines that are not JSON are returned unchanged, so
// a partially written last line never breaks the output.
//
// Highlight produces the same text with lipgloss colours for the time,
// level, logger name and field keys. lipgloss strips the colours when stdout
// is not a terminal.
package logtail
