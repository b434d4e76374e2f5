// Package logging builds the zap logger shared by every cadre component.
//
// # Output
//
// The TUI owns the terminal, so logs never go to stdout or stderr. New
// writes JSON lines to the configured log file, creating its directory
// when needed:
//
//	{"level":"info","ts":"2024-06-01T10:00:00.000+0200","logger":"cadre","msg":"gateway ready","backend":"docstore"}
//
// An empty log_file disables logging and returns a no-op logger.
//
// # Levels
//
// Info and above by default; --verbose lowers the level to debug. Sampling
// is off so repeated failures are all recorded.
//
// # Reading Logs
//
// `cadre logs` prints the tail of the same file through the logtail
// package, which understands this format.
package logging
