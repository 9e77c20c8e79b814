// Package journal records workspace mutations (add, fix, sort, sync, normalize,
// template) in a SQL table so that the history command can list them.
package journal
