// Package risk stores advisory risk rules in an append-only, hash-chained
// ledger and evaluates them against observed subject events. Evaluation is
// pure analysis: flags are never persisted by this package and carry no
// enforcement effect.
package risk

import (
	"strconv"
	"strings"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

// Category identifies the class of behavior a rule watches for.
type Category string

const (
	// CategoryCollusion flags coordinated play between players.
	CategoryCollusion Category = "risk.collusion"
	// CategoryDumping flags deliberate chip transfers through play.
	CategoryDumping Category = "risk.dumping"
	// CategoryBotPlay flags automation-like play patterns.
	CategoryBotPlay Category = "risk.bot_play"
	// CategoryMultiAccount flags one person operating several accounts.
	CategoryMultiAccount Category = "risk.multi_account"
)

var categoryOrder = []Category{
	CategoryCollusion,
	CategoryDumping,
	CategoryBotPlay,
	CategoryMultiAccount,
}

// Categories returns every rule category in declaration order.
func Categories() []string {
	out := make([]string, len(categoryOrder))
	for i, c := range categoryOrder {
		out[i] = string(c)
	}
	return out
}

// IsValid reports whether the category is declared.
func (c Category) IsValid() bool {
	return c.Index() >= 0
}

// Index returns the category's declaration position, or -1 when undeclared.
func (c Category) Index() int {
	for i, known := range categoryOrder {
		if c == known {
			return i
		}
	}
	return -1
}

// Severity grades how urgently a flag should be reviewed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid reports whether the severity is declared.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ThresholdKind discriminates the typed threshold carried by a rule.
type ThresholdKind string

const (
	// ThresholdCount triggers when more than MaxCount matching events exist.
	ThresholdCount ThresholdKind = "count"
	// ThresholdRate triggers when more than MaxPerWindow matching events
	// fall inside any sliding window of WindowMs.
	ThresholdRate ThresholdKind = "rate"
	// ThresholdMinGap triggers when two consecutive matching events are
	// closer together than MinGapMs (inspected within WindowMs).
	ThresholdMinGap ThresholdKind = "min_gap"
	// ThresholdPercent triggers when matching events make up more than
	// MaxPercent percent of all observed events.
	ThresholdPercent ThresholdKind = "percent"
)

// Threshold is a typed limit. Only the fields for its kind are meaningful.
type Threshold struct {
	Kind         ThresholdKind
	MaxCount     int
	MaxPerWindow int
	WindowMs     int64
	MinGapMs     int64
	MaxPercent   float64
}

func (t Threshold) validate() error {
	switch t.Kind {
	case ThresholdCount:
		if t.MaxCount < 0 {
			return errors.New(errors.CodeRuleInvalidThreshold, "max count must not be negative")
		}
	case ThresholdRate:
		if t.MaxPerWindow < 0 {
			return errors.New(errors.CodeRuleInvalidThreshold, "max per window must not be negative")
		}
		if t.WindowMs <= 0 {
			return errors.New(errors.CodeRuleInvalidThreshold, "rate threshold requires a positive window")
		}
	case ThresholdMinGap:
		if t.MinGapMs <= 0 {
			return errors.New(errors.CodeRuleInvalidThreshold, "min gap must be positive")
		}
	case ThresholdPercent:
		if t.MaxPercent < 0 || t.MaxPercent > 100 {
			return errors.WithMetadata(errors.CodeRuleInvalidThreshold,
				"max percent must be within [0, 100]", map[string]string{
					"max_percent": strconv.FormatFloat(t.MaxPercent, 'g', -1, 64),
				})
		}
	default:
		return errors.New(errors.CodeRuleInvalidThreshold, "threshold kind is not declared")
	}
	return nil
}

// Rule is the ledger payload for one named, immutable advisory rule.
// Revisions are new rules appended under a new name; rules are never edited
// in place.
type Rule struct {
	Name      string
	Category  Category
	Severity  Severity
	Threshold Threshold
}

// Validate checks required fields and the typed threshold.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New(errors.CodeRuleEmptyName, "rule name is required")
	}
	if !r.Category.IsValid() {
		return errors.New(errors.CodeRuleInvalidCategory, "rule category is not declared")
	}
	if !r.Severity.IsValid() {
		return errors.New(errors.CodeRuleInvalidSeverity, "rule severity is not declared")
	}
	return r.Threshold.validate()
}

// IdempotencyKey returns the rule name: a named rule is declared once.
func (r Rule) IdempotencyKey() string {
	return r.Name
}

// EncodeFields returns the deterministic field encoding hashed into the
// entry. Order must never change once entries exist.
func (r Rule) EncodeFields() []string {
	return []string{
		r.Name,
		string(r.Category),
		string(r.Severity),
		string(r.Threshold.Kind),
		strconv.Itoa(r.Threshold.MaxCount),
		strconv.Itoa(r.Threshold.MaxPerWindow),
		strconv.FormatInt(r.Threshold.WindowMs, 10),
		strconv.FormatInt(r.Threshold.MinGapMs, 10),
		strconv.FormatFloat(r.Threshold.MaxPercent, 'g', -1, 64),
	}
}
