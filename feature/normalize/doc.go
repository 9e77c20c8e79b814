// Package normalize rewrites entry fields of the library into their canonical biblatex
// form. Each rule works entry by entry and reports what it changed; a dry run computes
// the same report without writing.
//
// Rules:
//
//	year-to-date         rename year to date when no date is present
//	publisher-location   split "Publisher, City" into publisher and location
//	eprint-fields        archiveprefix/primaryclass to eprinttype/eprintclass, eprinttype arxiv
//	latex-accents        LaTeX accent commands and letter macros to composed Unicode
package normalize
