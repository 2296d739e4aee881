// Package guard provides advisory denylist checks for free text and
// identifier lists.
//
// Guard checks are lint/test-time tooling for adapters and operators. They
// are never part of the ledger append path: a failed check carries no
// enforcement effect and blocks nothing.
package guard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Guard holds a lowercased denylist of terms.
type Guard struct {
	terms []string
}

// New creates a guard from denylist terms. Blank terms are dropped and
// matching is case-insensitive.
func New(terms []string) *Guard {
	g := &Guard{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			g.terms = append(g.terms, t)
		}
	}
	return g
}

// denylistFile is the YAML shape of a denylist document.
type denylistFile struct {
	Terms []string `yaml:"terms"`
}

// Load reads a YAML denylist document ({terms: [...]}) into a guard.
func Load(r io.Reader) (*Guard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}
	var doc denylistFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse denylist: %w", err)
	}
	return New(doc.Terms), nil
}

// LoadFile reads a YAML denylist file into a guard.
func LoadFile(path string) (*Guard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open denylist: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Report is the outcome of a guard check.
type Report struct {
	Passed bool
	// Matched lists the denylist terms found, in denylist order, without
	// duplicates.
	Matched []string
}

// CheckText reports which denylist terms occur in the text.
func (g *Guard) CheckText(text string) Report {
	lowered := strings.ToLower(text)
	report := Report{Passed: true}
	for _, term := range g.terms {
		if strings.Contains(lowered, term) {
			report.Passed = false
			report.Matched = append(report.Matched, term)
		}
	}
	return report
}

// CheckIdentifiers reports which denylist terms occur in any identifier.
func (g *Guard) CheckIdentifiers(ids []string) Report {
	report := Report{Passed: true}
	seen := make(map[string]struct{})
	for _, id := range ids {
		sub := g.CheckText(id)
		for _, term := range sub.Matched {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			report.Passed = false
			report.Matched = append(report.Matched, term)
		}
	}
	return report
}
