// Package sorting rewrites the entry store and the identifier collection in alphabetical
// or acceptance order. The add-order list is the source of the key sequence and is never
// modified.
package sorting
