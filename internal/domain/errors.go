package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the BFA.

// GenericErrorMessage is shown when the backend does not say what went wrong.
const GenericErrorMessage = "Ocorreu um erro ao processar sua solicitação."

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call
// (transport error, SDK error, undecodable response).
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrBackend is a non-2xx answer from the REST backend.
// Message is the server's own message when it sent one.
type ErrBackend struct {
	Status  int
	Message string
}

func (e *ErrBackend) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return GenericErrorMessage
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing, invalid or expired session.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Sessão expirada. Faça login novamente."
}

// ErrConflict indicates the request does not match the current server state.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrLimitExceeded indicates a per-account limit was hit.
type ErrLimitExceeded struct {
	Resource string
	Limit    int
}

func (e *ErrLimitExceeded) Error() string {
	return fmt.Sprintf("Você pode enviar no máximo %d arquivos.", e.Limit)
}

// ErrConfirmationRequired is returned by destructive operations
// called without explicit user confirmation.
type ErrConfirmationRequired struct {
	Action string
}

func (e *ErrConfirmationRequired) Error() string {
	return fmt.Sprintf("confirmation required: %s", e.Action)
}

// ErrStepNotAdvanced is returned when the onboarding side effect succeeded
// (or was skipped) but the backend refused or failed to persist the next
// status. Current is the step the user stays on.
type ErrStepNotAdvanced struct {
	Current string
	Target  Status
	Err     error
}

func (e *ErrStepNotAdvanced) Error() string {
	return fmt.Sprintf("Falha ao avançar para %s: %v", e.Target, e.Err)
}

func (e *ErrStepNotAdvanced) Unwrap() error {
	return e.Err
}

// BackendMessage returns the message to show the user for err:
// the server's message when present, a generic one otherwise.
func BackendMessage(err error) string {
	var be *ErrBackend
	if errors.As(err, &be) {
		return be.Error()
	}
	var ve *ErrValidation
	if errors.As(err, &ve) {
		return ve.Message
	}
	return GenericErrorMessage
}
