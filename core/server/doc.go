// Package server holds the HTTP report server configuration.
//
// The Config struct defines the listening port, the optional API key and the lifetime
// of the workspace cache shared by report requests. It is embedded by core/config and
// read by the start command.
package server
