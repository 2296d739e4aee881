// Package signal records behavioral exposure signals observed at live
// tables: who showed which behavior, where, during which session, and how
// strongly. Signals are advisory observations, never enforcement actions.
package signal

import (
	"strconv"
	"strings"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

// Kind identifies the kind of behavioral signal.
type Kind string

// Behavioral signal kinds. Declaration order breaks ties in derived views.
const (
	// KindAngleShoot records an angle-shooting attempt.
	KindAngleShoot Kind = "signal.angle_shoot"
	// KindSlowRoll records a slow roll at showdown.
	KindSlowRoll Kind = "signal.slow_roll"
	// KindStringBet records a string bet.
	KindStringBet Kind = "signal.string_bet"
	// KindChipDumping records a deliberate chip dump toward another player.
	KindChipDumping Kind = "signal.chip_dumping"
	// KindSoftPlay records soft play between players.
	KindSoftPlay Kind = "signal.soft_play"
)

var kindOrder = []Kind{
	KindAngleShoot,
	KindSlowRoll,
	KindStringBet,
	KindChipDumping,
	KindSoftPlay,
}

// Kinds returns every signal kind in declaration order.
func Kinds() []string {
	out := make([]string, len(kindOrder))
	for i, k := range kindOrder {
		out[i] = string(k)
	}
	return out
}

// IsValid reports whether the kind is a declared signal kind.
func (k Kind) IsValid() bool {
	return k.Index() >= 0
}

// Index returns the kind's declaration position, or -1 when undeclared.
func (k Kind) Index() int {
	for i, known := range kindOrder {
		if k == known {
			return i
		}
	}
	return -1
}

// Signal is the ledger payload for one observed behavioral signal.
type Signal struct {
	Kind Kind
	// PlayerID is the observed player (the actor).
	PlayerID string
	// TableID is the table where the behavior was observed (the context).
	TableID string
	// SessionID is the operational session (the period).
	SessionID string
	// Intensity grades the behavior from 0 (marginal) to 1 (flagrant).
	Intensity float64
	// DurationMs is how long the behavior lasted, in milliseconds.
	DurationMs int64
	// RefID is an optional external reference id. When set it acts as the
	// idempotency key: the same reference is never recorded twice.
	RefID string
}

// Validate checks required fields and numeric ranges.
func (s Signal) Validate() error {
	if !s.Kind.IsValid() {
		return errors.New(errors.CodeSignalInvalidKind, "signal kind is not declared")
	}
	if strings.TrimSpace(s.PlayerID) == "" {
		return errors.New(errors.CodeSignalEmptyPlayerID, "player id is required")
	}
	if strings.TrimSpace(s.TableID) == "" {
		return errors.New(errors.CodeSignalEmptyTableID, "table id is required")
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return errors.New(errors.CodeSignalEmptySessionID, "session id is required")
	}
	if s.Intensity < 0 || s.Intensity > 1 {
		return errors.WithMetadata(errors.CodeSignalInvalidIntensity,
			"intensity must be within [0, 1]", map[string]string{
				"intensity": strconv.FormatFloat(s.Intensity, 'g', -1, 64),
			})
	}
	if s.DurationMs < 0 {
		return errors.New(errors.CodeSignalInvalidDuration, "duration must not be negative")
	}
	return nil
}

// IdempotencyKey returns the external reference id, if any.
func (s Signal) IdempotencyKey() string {
	return s.RefID
}

// EncodeFields returns the deterministic field encoding hashed into the
// entry. Order must never change once entries exist.
func (s Signal) EncodeFields() []string {
	return []string{
		string(s.Kind),
		s.PlayerID,
		s.TableID,
		s.SessionID,
		strconv.FormatFloat(s.Intensity, 'g', -1, 64),
		strconv.FormatInt(s.DurationMs, 10),
		s.RefID,
	}
}
