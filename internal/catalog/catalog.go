// Package catalog selects the record sets that belong to a cohort.
//
// Record-set names encode one (batch, branch, semester) triple, for example
// "2024_CSE_3" or "2024-CSE-sem-3". A name matches a cohort only when each of
// the three values equals a whole token of the name, so batch "202" does not
// match "2024_CSE_3".
package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/noah-isme/hallticket-portal/internal/models"
)

// Tokens splits a record-set name on separators and lowercases the parts.
func Tokens(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// Matches reports whether name encodes the cohort.
func Matches(name string, cohort models.Cohort) bool {
	if cohort.Batch == "" || cohort.Branch == "" || cohort.Semester == "" {
		return false
	}
	set := make(map[string]struct{})
	for _, t := range Tokens(name) {
		set[t] = struct{}{}
	}
	for _, want := range []string{cohort.Batch, cohort.Branch, cohort.Semester} {
		if _, ok := set[strings.ToLower(strings.TrimSpace(want))]; !ok {
			return false
		}
	}
	return true
}

// Filter returns the sorted, de-duplicated names that encode the cohort.
func Filter(names []string, cohort models.Cohort) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0)
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if Matches(name, cohort) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Contains reports whether name is one of sets.
func Contains(sets []models.RecordSet, name string) bool {
	for _, s := range sets {
		if s.Name == name {
			return true
		}
	}
	return false
}
