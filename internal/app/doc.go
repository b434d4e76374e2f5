// Package app is the composition root for cadre.
//
// # Overview
//
// Setup loads configuration, builds the file logger and connects the program
// gateway selected by the backend setting. Run adds the TUI on top of that.
// The CLI subcommands share Setup so every entry point sees the same
// configuration and the same instrumented gateway.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> Setup()
//	       │        ├─> config.Load() + Validate()
//	       │        ├─> logging.New()
//	       │        ├─> NewGateway()      docstore or postgres
//	       │        └─> metrics.Instrument()
//	       ├─────> prefs.Load()           theme and locale
//	       ├─────> metrics.Serve()        only when metrics_addr is set
//	       └─────> ui.Run()               blocks until quit
//
// # Loading
//
// The program list is fetched once, when the page opens. There is no
// background polling; a new program shows up because the page appends it
// after a successful create.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration or unknown backend
//   - Log file cannot be created
//   - Postgres unreachable after all connection attempts
//
// Everything after startup (load failures, transport errors on create) is
// logged and handled by the page itself.
//
// # Shutdown
//
// Cancelling the context stops the TUI and the metrics server. Run waits for
// the metrics server to exit before closing the gateway.
package app
