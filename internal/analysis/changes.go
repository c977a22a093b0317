package analysis

import (
	"help2postman/internal/parser"
)

// Change is one endpoint that appeared or disappeared between two runs.
type Change struct {
	Section  string
	Endpoint parser.Endpoint
}

// ChangeReport summarizes how the help page changed since the previous run.
type ChangeReport struct {
	Added   []Change
	Removed []Change
}

// HasChanges reports whether any endpoint was added or removed.
func (r *ChangeReport) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Compare matches endpoints by method and path. An endpoint that moved to a
// different section is not reported.
func Compare(prev, curr []parser.Section) *ChangeReport {
	report := &ChangeReport{
		Added:   []Change{},
		Removed: []Change{},
	}

	prevKeys := index(prev)
	currKeys := index(curr)

	for _, s := range curr {
		for _, ep := range s.Endpoints {
			if !prevKeys[ep.Key()] {
				report.Added = append(report.Added, Change{Section: s.Name, Endpoint: ep})
			}
		}
	}
	for _, s := range prev {
		for _, ep := range s.Endpoints {
			if !currKeys[ep.Key()] {
				report.Removed = append(report.Removed, Change{Section: s.Name, Endpoint: ep})
			}
		}
	}

	return report
}

func index(sections []parser.Section) map[string]bool {
	keys := make(map[string]bool)
	for _, s := range sections {
		for _, ep := range s.Endpoints {
			keys[ep.Key()] = true
		}
	}
	return keys
}
