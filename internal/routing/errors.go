package routing

import (
	"errors"
	"fmt"
)

// Kind classifies a routing failure. Validation, authorization and
// routing-unavailable failures are detected before any write; persistence
// and audit-emission failures abort mid-transaction and roll back every
// write of the call.
type Kind string

const (
	KindValidation                 Kind = "validation"
	KindAuthorization              Kind = "authorization"
	KindNotFoundOrAlreadyProcessed Kind = "not_found_or_already_processed"
	KindRoutingUnavailable         Kind = "routing_unavailable"
	KindPersistence                Kind = "persistence"
	KindAuditEmission              Kind = "audit_emission"
)

// Error is the typed failure returned by the router.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the failure kind from any error returned by the
// router. Unclassified errors are storage failures by construction.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindPersistence
}
