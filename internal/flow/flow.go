// Package flow records directional chip-flow observations: units entering
// play (buy-ins) or leaving it (cash-outs), attributed to a player, table,
// and session. Like signals, flow records are observations only.
package flow

import (
	"strconv"
	"strings"

	"github.com/cardhall/pitwatch/internal/platform/errors"
)

// Direction tells whether units entered or left play.
type Direction string

const (
	// DirectionIn records units entering play.
	DirectionIn Direction = "flow.in"
	// DirectionOut records units leaving play.
	DirectionOut Direction = "flow.out"
)

// IsValid reports whether the direction is declared.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Source identifies where the units came from.
type Source string

// Flow sources. Declaration order breaks ties in derived views.
const (
	// SourcePurchase records a cash purchase.
	SourcePurchase Source = "source.purchase"
	// SourceTransfer records a transfer from another player or table.
	SourceTransfer Source = "source.transfer"
	// SourceBonus records promotional units.
	SourceBonus Source = "source.bonus"
	// SourceComp records complimentary units issued by the floor.
	SourceComp Source = "source.comp"
)

var sourceOrder = []Source{
	SourcePurchase,
	SourceTransfer,
	SourceBonus,
	SourceComp,
}

// Sources returns every flow source in declaration order.
func Sources() []string {
	out := make([]string, len(sourceOrder))
	for i, s := range sourceOrder {
		out[i] = string(s)
	}
	return out
}

// IsValid reports whether the source is declared.
func (s Source) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the source's declaration position, or -1 when undeclared.
func (s Source) Index() int {
	for i, known := range sourceOrder {
		if s == known {
			return i
		}
	}
	return -1
}

// Flow is the ledger payload for one directional unit-flow record.
type Flow struct {
	Direction Direction
	Source    Source
	PlayerID  string
	TableID   string
	SessionID string
	// Units is the integer unit count moved; never negative.
	Units int64
	// RefID is an optional external reference id acting as the idempotency
	// key when set.
	RefID string
}

// Validate checks required fields and numeric ranges.
func (f Flow) Validate() error {
	if !f.Direction.IsValid() {
		return errors.New(errors.CodeFlowInvalidDirection, "flow direction is not declared")
	}
	if !f.Source.IsValid() {
		return errors.New(errors.CodeFlowInvalidSource, "flow source is not declared")
	}
	if strings.TrimSpace(f.PlayerID) == "" {
		return errors.New(errors.CodeFlowEmptyPlayerID, "player id is required")
	}
	if strings.TrimSpace(f.TableID) == "" {
		return errors.New(errors.CodeFlowEmptyTableID, "table id is required")
	}
	if strings.TrimSpace(f.SessionID) == "" {
		return errors.New(errors.CodeFlowEmptySessionID, "session id is required")
	}
	if f.Units < 0 {
		return errors.WithMetadata(errors.CodeFlowInvalidUnits,
			"unit count must not be negative", map[string]string{
				"units": strconv.FormatInt(f.Units, 10),
			})
	}
	return nil
}

// IdempotencyKey returns the external reference id, if any.
func (f Flow) IdempotencyKey() string {
	return f.RefID
}

// EncodeFields returns the deterministic field encoding hashed into the
// entry. Order must never change once entries exist.
func (f Flow) EncodeFields() []string {
	return []string{
		string(f.Direction),
		string(f.Source),
		f.PlayerID,
		f.TableID,
		f.SessionID,
		strconv.FormatInt(f.Units, 10),
		f.RefID,
	}
}
