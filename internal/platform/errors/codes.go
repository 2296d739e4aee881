// Package errors provides structured error handling for pitwatch domains.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ledger errors
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeDuplicateIdentity Code = "DUPLICATE_IDENTITY"
	CodeChainBroken       Code = "CHAIN_BROKEN"
	CodeHashMismatch      Code = "HASH_MISMATCH"

	// Signal errors
	CodeSignalInvalidKind      Code = "SIGNAL_INVALID_KIND"
	CodeSignalEmptyPlayerID    Code = "SIGNAL_EMPTY_PLAYER_ID"
	CodeSignalEmptyTableID     Code = "SIGNAL_EMPTY_TABLE_ID"
	CodeSignalEmptySessionID   Code = "SIGNAL_EMPTY_SESSION_ID"
	CodeSignalInvalidIntensity Code = "SIGNAL_INVALID_INTENSITY"
	CodeSignalInvalidDuration  Code = "SIGNAL_INVALID_DURATION"
	CodeSignalZeroTimestamp    Code = "SIGNAL_ZERO_TIMESTAMP"

	// Risk rule errors
	CodeRuleEmptyName        Code = "RULE_EMPTY_NAME"
	CodeRuleInvalidCategory  Code = "RULE_INVALID_CATEGORY"
	CodeRuleInvalidSeverity  Code = "RULE_INVALID_SEVERITY"
	CodeRuleInvalidThreshold Code = "RULE_INVALID_THRESHOLD"
	CodeRuleZeroTimestamp    Code = "RULE_ZERO_TIMESTAMP"

	// Flow errors
	CodeFlowInvalidDirection Code = "FLOW_INVALID_DIRECTION"
	CodeFlowInvalidSource    Code = "FLOW_INVALID_SOURCE"
	CodeFlowEmptyPlayerID    Code = "FLOW_EMPTY_PLAYER_ID"
	CodeFlowEmptyTableID     Code = "FLOW_EMPTY_TABLE_ID"
	CodeFlowEmptySessionID   Code = "FLOW_EMPTY_SESSION_ID"
	CodeFlowInvalidUnits     Code = "FLOW_INVALID_UNITS"
	CodeFlowZeroTimestamp    Code = "FLOW_ZERO_TIMESTAMP"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// IsValidation reports whether the code describes rejected input, as opposed
// to a broken chain, a duplicate, or a missing record.
func (c Code) IsValidation() bool {
	switch c {
	case CodeUnknown, CodeDuplicateIdentity, CodeChainBroken, CodeHashMismatch, CodeNotFound:
		return false
	}
	return true
}
