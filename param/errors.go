package param

import (
	"errors"
	"strconv"
)

// Kind is a stable category for programmatic error handling.
//
// Errors raised by the type parser or by a nested component are not
// re-categorized here; they reach the caller as the original value.
type Kind string

const (
	KindDuplicateField Kind = "DuplicateField"
	KindMissingField   Kind = "MissingField"
	KindSyntax         Kind = "Syntax"
)

// Error is the package's structured error type.
//
// Field names the record key involved for DuplicateField and MissingField.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return "param: " + e.Message + ": " + e.Cause.Error()
	}
	return "param: " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func duplicateField(field string) error {
	return &Error{
		Kind:    KindDuplicateField,
		RuleID:  "PARAM-FLD-001",
		Field:   field,
		Message: "duplicate field " + strconv.Quote(field),
	}
}

func missingField(field string) error {
	return &Error{
		Kind:    KindMissingField,
		RuleID:  "PARAM-FLD-002",
		Field:   field,
		Message: "missing field " + strconv.Quote(field),
	}
}

func syntaxError(ruleID, msg string, cause error) error {
	return &Error{Kind: KindSyntax, RuleID: ruleID, Message: msg, Cause: cause}
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

// IsDuplicateField reports whether err reports a repeated field.
func IsDuplicateField(err error, field string) bool {
	return isFieldError(err, KindDuplicateField, field)
}

// IsMissingField reports whether err reports an absent required field.
func IsMissingField(err error, field string) bool {
	return isFieldError(err, KindMissingField, field)
}

func isFieldError(err error, kind Kind, field string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind && e.Field == field
}
