// Package bibtex reads and writes the entry-level subset of the BibTeX format used by the
// library store.
//
// A file is parsed into a Library: an ordered list of blocks. Entry blocks carry the entry
// type, citation key and an ordered field list. Everything else (comments, @string and
// @preamble declarations, free text between entries) is kept verbatim as a raw block so
// that writing a parsed library reproduces it.
//
// # Round-tripping
//
// Parse followed by Write preserves block order, entry keys, entry types, field order,
// field names and field values. Each field also remembers how its value was delimited
// (braces, quotes or bare) so the writer can emit it the same way. Whitespace between
// blocks is normalized to a single blank line.
//
// # Usage
//
//	lib, err := bibtex.Parse(data)
//	if err != nil {
//	    return err
//	}
//	for _, e := range lib.Entries() {
//	    author, _ := e.Get("author")
//	    fmt.Println(e.Key, author)
//	}
//	out := bibtex.Format(lib)
//
// Field lookups are case-insensitive. String macro expansion and concatenation are not
// evaluated: a concatenated value is kept as its raw expression.
package bibtex
