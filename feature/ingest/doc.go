// Package ingest moves staged entries into the workspace.
//
// A staging directory holds pairs of files sharing a slug of the form
// YYYY-MM-DD-name: name.bib with the entries and name.json with their identifier
// records. Add labels every staged entry, appends the accepted ones to the three stores
// after a backup and removes the processed pairs. Template drafts the .json half of a pair
// from the identifier fields found in its .bib file.
package ingest
