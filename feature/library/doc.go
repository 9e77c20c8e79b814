// Package library serves read-only reports over the workspace stores.
//
// Routes (under the feature's router):
//
//	GET /library/consistency    three-way key check
//	GET /library/labels         entries whose key differs from the generated label
//	GET /library/entries        key, type, title and label of every entry
//	GET /library/entries/:key   one entry with its fields and identifier record
//
// Loads go through a TTL cache so that concurrent requests share one read of the stores.
package library
