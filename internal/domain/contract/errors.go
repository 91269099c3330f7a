package contract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("contract not found")
	ErrIllegalTransition = errors.New("contract status does not permit this action")
	ErrNumbering         = errors.New("contract number could not be issued")
	ErrFrozen            = errors.New("contract is frozen after approval")
	ErrNotCounterparty   = errors.New("caller is not the contract counterparty")
)

// Violation is one failed validation rule with a user-facing localized
// message.
type Violation struct {
	Rule    string `json:"rule"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError accumulates every failed rule; it never short-circuits so
// the user sees the full set at once.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationError) Add(rule, field, message string) {
	e.Violations = append(e.Violations, Violation{Rule: rule, Field: field, Message: message})
}

func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
