// Package syncids copies identifiers from the identifier collection into the matching
// entry fields. The collection is authoritative for those fields.
package syncids
