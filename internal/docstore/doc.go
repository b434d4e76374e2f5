// Package docstore implements program.Gateway against a hosted document
// database's REST API.
//
// # Endpoints
//
// Both operations address one collection:
//
//	GET  {base}/v1/collections/{collection}/documents
//	POST {base}/v1/collections/{collection}/documents
//
// The list response is {"documents":[{"id":"..","fields":{..}}]}. Field
// values arrive as decoded JSON with numbers kept as json.Number, so
// program.Snapshot.Program can tell integers from fractions. Timestamps are
// {"seconds":..,"nanos":..} objects.
//
// Create answers 201 {"id":".."}. A 400 whose body carries
// {"error":{"type":"validation","details":[{"path":[..],"message":".."}]}}
// becomes a *program.ValidationError; every other status >= 400 is an
// *APIError.
//
// # Validation
//
// Drafts are checked with program.Validate before any request is sent. The
// server's own validation errors use the same shape, so callers handle both
// alike.
//
// # Authentication
//
// When an API key is configured it is sent as a bearer token. Requests also
// carry a "cadre/<version>" user agent.
package docstore
