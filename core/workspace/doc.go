// Package workspace loads and saves the three stores of a bibliography workspace and
// defines the error taxonomy shared by every operation on them.
//
// # Layout
//
// By default a workspace rooted at R contains:
//
//	R/bib/library.bib                     entry store (BibTeX)
//	R/data/identifier_collection.json     key -> {main_identifier, identifiers}
//	R/data/add_order.json                 keys in acceptance order
//	R/staging/                            staged entry pairs and backups
//	R/bib/generated/labels.json           generate-labels output
//
// Every path can be overridden through Config.
//
// # Reading
//
// JSON stores are validated against their schema (see package schema) before decoding.
// The identifier collection keeps the key order of the file so that sorting can rewrite it.
//
// # Writing
//
// Save serializes all three stores in memory, stages each as a temporary file next to its
// target and renames them into place only after every temporary file was written. A
// serialization or staging failure leaves all stores untouched.
//
// # Errors
//
// Failures carry one of the sentinel kinds ErrNotFound, ErrMalformed, ErrInconsistent,
// ErrCollision or ErrBackup through *Error, so callers branch with errors.Is.
package workspace
