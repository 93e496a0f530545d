package magdoc

import (
	"errors"
	"fmt"
	"strings"
)

// Application error codes.
const (
	EINTERNAL     = "internal"
	EINVALID      = "invalid"
	ENOTFOUND     = "not_found"
	EMALFORMED    = "malformed_document"
	EVIOLATION    = "structural_violation"
	EUNRECOGNIZED = "unrecognized_variant"
)

// Error represents an application-specific error. Structural violations
// carry every collected violation rather than only the first one.
type Error struct {
	Code       string
	Message    string
	Violations []Violation
}

// Error implements the error interface. Violations, if any, follow the
// message one per line.
func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("magdoc error: code=%s message=%s", e.Code, e.Message)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "magdoc error: code=%s message=%s", e.Code, e.Message)
	for _, v := range e.Violations {
		b.WriteString("\n\t")
		b.WriteString(v.String())
	}
	return b.String()
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error"
}

// Violations returns the structural violations carried by err, if any.
func Violations(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}

// ViolationKind classifies a structural violation.
type ViolationKind string

// Violation kinds reported by the validator.
const (
	ViolationLength          ViolationKind = "Length"
	ViolationCharset         ViolationKind = "Charset"
	ViolationCount           ViolationKind = "Count"
	ViolationDuplicate       ViolationKind = "Duplicate"
	ViolationOrder           ViolationKind = "Order"
	ViolationProportion      ViolationKind = "Proportion"
	ViolationUntrustedSource ViolationKind = "UntrustedSource"
	ViolationMalformedURL    ViolationKind = "MalformedURL"
	ViolationRequired        ViolationKind = "Required"
)

// Violation describes one broken structural invariant.
type Violation struct {
	Kind    ViolationKind
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: invalid value for %q: %s", v.Kind, v.Field, v.Message)
}

// violationError folds violations into a single EVIOLATION error. Returns
// nil when there is nothing to report.
func violationError(subject string, violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &Error{
		Code:       EVIOLATION,
		Message:    fmt.Sprintf("invalid %s: %d violation(s)", subject, len(violations)),
		Violations: violations,
	}
}
