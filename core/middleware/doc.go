// Package middleware holds the Fiber middleware of the report server.
//
//   - auth: rejects requests whose X-API-Key header does not match server.api_key. An empty
//     key leaves the server open, which is the default for a local workspace.
//   - rayid: reuses an incoming X-Ray-ID header or assigns a new uuid, stores it in the
//     request locals and echoes it in the response so that log lines of one request can be
//     grouped.
//
// The start command installs rayid first, then request logging and metrics, then auth in
// front of the feature routes. /swagger and /metrics stay public.
package middleware
