// Package labels derives canonical citation labels of the form surname-year-hash.
//
// The surname comes from the first author (or editor) with diacritics removed and only
// ASCII letters kept. The year is the first 19xx/20xx token of date or year. The hash is
// the first eight hex digits of the SHA-256 of the entry's main identifier value, or of
// the entry key when it has none. Missing parts become "unknown".
package labels
