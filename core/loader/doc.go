// Package loader registers the HTTP features of the report server.
//
// A feature is a self-contained slice (service, handler, routes) behind the Feature
// interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The start command registers every feature with a Manager and calls LoadAll once the
// middleware is in place. Disabled features, such as the journal without a database, are
// logged and skipped.
package loader
