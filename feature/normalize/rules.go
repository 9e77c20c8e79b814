package normalize

import (
	"fmt"
	"strings"

	"biblib/core/bibtex"
)

// Rule names a normalization.
type Rule string

const (
	YearToDate        Rule = "year-to-date"
	PublisherLocation Rule = "publisher-location"
	EprintFields      Rule = "eprint-fields"
	LatexAccents      Rule = "latex-accents"
)

// Rules lists every rule in the order the CLI shows them.
var Rules = []Rule{YearToDate, PublisherLocation, EprintFields, LatexAccents}

// ParseRule validates a rule name.
func ParseRule(s string) (Rule, error) {
	for _, r := range Rules {
		if string(r) == s {
			return r, nil
		}
	}
	names := make([]string, len(Rules))
	for i, r := range Rules {
		names[i] = string(r)
	}
	return "", fmt.Errorf("unknown normalization %q (want one of %s)", s, strings.Join(names, ", "))
}

// Change is one edit to an entry. For field renames From and To are field names,
// otherwise they are values.
type Change struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func (c Change) String() string {
	return fmt.Sprintf("%s.%s: '%s' -> '%s'", c.Key, c.Field, c.From, c.To)
}

// apply runs one rule on an entry. flagged marks entries that need a manual look.
type apply func(e *bibtex.Entry) (changes []Change, flagged bool)

func (r Rule) apply() apply {
	switch r {
	case YearToDate:
		return yearToDate
	case PublisherLocation:
		return publisherLocation
	case EprintFields:
		return eprintFields
	case LatexAccents:
		return latexAccents
	}
	return nil
}

func yearToDate(e *bibtex.Entry) ([]Change, bool) {
	if e.Has("date") || !e.Has("year") {
		return nil, false
	}
	e.Rename("year", "date")
	return []Change{{Key: e.Key, Field: "year", From: "year", To: "date"}}, false
}

// publisherLocation flags non-article entries with a publisher and no location and
// splits publishers of the form "Name, Place".
func publisherLocation(e *bibtex.Entry) ([]Change, bool) {
	if strings.EqualFold(e.Type, "article") {
		return nil, false
	}
	if !e.Has("publisher") || e.Has("location") {
		return nil, false
	}

	publisher := e.Value("publisher")
	if strings.Count(publisher, ",") != 1 {
		return nil, true
	}
	name, place, _ := strings.Cut(publisher, ",")
	name, place = strings.TrimSpace(name), strings.TrimSpace(place)
	if name == "" || place == "" {
		return nil, true
	}

	e.Set("publisher", name)
	e.Set("location", place)
	return []Change{
		{Key: e.Key, Field: "publisher", From: publisher, To: name},
		{Key: e.Key, Field: "location", To: place},
	}, true
}

func eprintFields(e *bibtex.Entry) ([]Change, bool) {
	var changes []Change
	for _, rn := range [][2]string{{"archiveprefix", "eprinttype"}, {"primaryclass", "eprintclass"}} {
		from, to := rn[0], rn[1]
		v, ok := e.Get(from)
		if !ok {
			continue
		}
		if e.Has(to) {
			e.Remove(from)
			e.Set(to, v)
		} else {
			e.Rename(from, to)
		}
		changes = append(changes, Change{Key: e.Key, Field: from, From: from, To: to})
	}

	if v, ok := e.Get("eprinttype"); ok && strings.EqualFold(v, "arxiv") && v != "arxiv" {
		e.Set("eprinttype", "arxiv")
		changes = append(changes, Change{Key: e.Key, Field: "eprinttype", From: v, To: "arxiv"})
	}
	return changes, false
}

func latexAccents(e *bibtex.Entry) ([]Change, bool) {
	var changes []Change
	for i, f := range e.Fields {
		v := ConvertAccents(f.Value)
		if v == f.Value {
			continue
		}
		e.Fields[i].Value = v
		changes = append(changes, Change{Key: e.Key, Field: f.Name, From: f.Value, To: v})
	}
	return changes, false
}
