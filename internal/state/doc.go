// Package state holds the Programs page state and the transitions that drive
// it.
//
// # Overview
//
// Page is a plain value. Every change goes through Apply, which takes the
// current page and an Event and returns the next page plus an Effect that
// describes the I/O the caller must perform:
//
//	page, eff := state.Apply(page, state.Submitted{At: time.Now()})
//	switch e := eff.(type) {
//	case state.EffectCreate:
//		// call Gateway.Create(ctx, e.Draft), then feed back
//		// CreateSucceeded or CreateFailed
//	}
//
// Apply never blocks and never mutates its input, so the UI loop and the
// tests drive the same code.
//
// # Creation dialog
//
// The dialog moves through three phases:
//
//	Idle ──DialogOpened──→ Editing ──Submitted──→ Submitting
//	 ↑                      │  ↑                     │
//	 └────DialogClosed──────┘  └────CreateFailed─────┤
//	 ↑                                               │
//	 └────────────────CreateSucceeded────────────────┘
//
// The draft survives DialogClosed and CreateFailed, so reopening the dialog
// shows what was typed. Submitted is ignored unless the page is Editing;
// a second submit while one is in flight never reaches the gateway.
//
// # Errors
//
// A failed create always returns the page to Editing. Validation failures
// become exactly one field error (the first reported issue, sanitized);
// anything else becomes a generic message under program.FormErrorKey and an
// EffectLog.
//
// # Display
//
// Classify maps (programs, loading) to the view the page shows. It is a pure
// function of its arguments.
package state
