package paramtype

import (
	"errors"
	"strconv"
)

// Kind is a stable category for programmatic error handling.
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindSyntax  Kind = "Syntax"
	KindUnknown Kind = "Unknown"
	KindRange   Kind = "Range"
)

// Error is returned by Parse.
//
// Input is the full type string that was being parsed. Message is intended
// for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Input   string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "paramtype: " + e.Message + " in " + strconv.Quote(e.Input)
}

func newError(kind Kind, ruleID, input, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Input: input, Message: msg}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
