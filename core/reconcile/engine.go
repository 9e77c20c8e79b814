package reconcile

import (
	"sort"
)

// Check reconciles the key lists of the three stores. For each source it reports the keys
// the other two have and it lacks, the keys only it has, and its duplicated keys.
func Check(library, identifiers, order []string) Report {
	libSet, libDups := buildIndex(library)
	idSet, idDups := buildIndex(identifiers)
	orderSet, orderDups := buildIndex(order)

	unionKeys := buildUnion(libSet, idSet, orderSet)

	results := make([]ReconcileResult, 0, len(unionKeys))
	for key := range unionKeys {
		results = append(results, buildResult(key, libSet, idSet, orderSet))
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	return Report{
		Results:     results,
		Library:     compare(SourceLibrary, len(library), libSet, idSet, orderSet, libDups),
		Identifiers: compare(SourceIdentifiers, len(identifiers), idSet, libSet, orderSet, idDups),
		Order:       compare(SourceOrder, len(order), orderSet, libSet, idSet, orderDups),
	}
}

// buildIndex returns the set of keys and the sorted keys seen more than once.
func buildIndex(keys []string) (map[string]struct{}, []string) {
	set := make(map[string]struct{}, len(keys))
	seen := make(map[string]struct{})
	var dups []string
	for _, k := range keys {
		if _, ok := set[k]; ok {
			if _, reported := seen[k]; !reported {
				seen[k] = struct{}{}
				dups = append(dups, k)
			}
			continue
		}
		set[k] = struct{}{}
	}
	sort.Strings(dups)
	return set, dups
}

// buildUnion creates a union of all keys from the three sources.
func buildUnion(sets ...map[string]struct{}) map[string]struct{} {
	union := make(map[string]struct{})
	for _, set := range sets {
		for key := range set {
			union[key] = struct{}{}
		}
	}
	return union
}

// buildResult creates a ReconcileResult for a single key.
func buildResult(key string, libSet, idSet, orderSet map[string]struct{}) ReconcileResult {
	_, libPresent := libSet[key]
	_, idPresent := idSet[key]
	_, orderPresent := orderSet[key]

	return ReconcileResult{
		ID:                 key,
		LibraryPresent:     libPresent,
		IdentifiersPresent: idPresent,
		OrderPresent:       orderPresent,
	}
}

// compare builds the report of self against the two other sources.
func compare(source Source, total int, self, a, b map[string]struct{}, dups []string) SourceReport {
	others := buildUnion(a, b)

	report := SourceReport{
		Source:      source,
		Total:       total,
		MissingFrom: []string{},
		OnlyIn:      []string{},
		Duplicates:  dups,
	}
	if report.Duplicates == nil {
		report.Duplicates = []string{}
	}

	for key := range others {
		if _, ok := self[key]; !ok {
			report.MissingFrom = append(report.MissingFrom, key)
		}
	}
	for key := range self {
		if _, ok := others[key]; !ok {
			report.OnlyIn = append(report.OnlyIn, key)
		}
	}
	sort.Strings(report.MissingFrom)
	sort.Strings(report.OnlyIn)
	return report
}
