// Package program defines the training-program record, its draft form, the
// schema validation applied before persistence, and the Gateway contract
// implemented by the storage backends.
//
// # Records
//
// A Program is persisted once and never edited. Drafts carry no id; they get
// one from Gateway.Create and become Programs via Draft.WithID. Each draft is
// also given a client-side key so lists can identify entries before the
// gateway answers.
//
// # Validation
//
// Validate reports every failing field as an Issue with a path and a message
// of the form `"title" is required`. The UI surfaces only the first issue;
// DisplayError picks it and SanitizeMessage replaces the quoted field name
// with "Field" so internal names never reach the operator.
//
// # Snapshots
//
// Gateways return raw documents (Snapshot). Timestamps stay in the provider
// representation until Snapshot.Program converts them with ParseTimestamp.
package program
