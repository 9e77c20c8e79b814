package labels

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"biblib/core/bibtex"
	"biblib/core/workspace"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unknown replaces a surname or year that cannot be derived.
const Unknown = "unknown"

// yearPattern only recognizes 1900-2099.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var nonLetters = regexp.MustCompile(`[^a-zA-Z]`)

// Generate returns the canonical label of an entry. rec may be nil when the entry has no
// identifier record.
func Generate(e *bibtex.Entry, rec *workspace.IdentifierRecord) string {
	name := e.Value("author")
	if name == "" {
		name = e.Value("editor")
	}

	date, ok := e.Get("date")
	if !ok {
		date = e.Value("year")
	}

	source := e.Key
	if rec != nil {
		if main, ok := rec.Main(); ok {
			source = main
		}
	}

	return Surname(name, e.Value("sortname")) + "-" + Year(date) + "-" + Hash(source)
}

// Surname extracts the normalized family name of the first listed person.
func Surname(author, sortname string) string {
	if author == "" {
		return Unknown
	}

	first := strings.TrimSpace(strings.Split(author, " and ")[0])

	var last string
	if strings.HasPrefix(first, "{") && strings.HasSuffix(first, "}") {
		words := strings.Fields(strings.Trim(first, "{}"))
		if sortname != "" {
			words = strings.Fields(sortname)
		}
		if len(words) > 0 {
			last = words[0]
		}
	} else if before, _, found := strings.Cut(first, ","); found {
		last = strings.TrimSpace(before)
	} else if words := strings.Fields(first); len(words) > 0 {
		last = words[len(words)-1]
	}

	return normalizeName(last)
}

// Year returns the first 19xx or 20xx token of a date or year value.
func Year(value string) string {
	if y := yearPattern.FindString(value); y != "" {
		return y
	}
	return Unknown
}

// Hash returns the first eight hex digits of the SHA-256 of s.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(nonLetters.ReplaceAllString(stripped, ""))
	if stripped == "" {
		return Unknown
	}
	return stripped
}
