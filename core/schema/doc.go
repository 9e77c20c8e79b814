// Package schema validates the JSON stores against CUE definitions before they are decoded.
//
// Two documents are checked:
//
//   - the identifier collection, an object mapping citation keys to records of the form
//     {"main_identifier": string, "identifiers": {string: string}}
//   - the order list, an array of citation keys
//
// Records are closed: unknown fields are rejected rather than dropped on the next write.
package schema
