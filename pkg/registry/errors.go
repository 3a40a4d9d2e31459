package registry

import (
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages surfaced next to the tax-id field.
const (
	MessageInvalid  = "CNPJ inválido. Informe 14 dígitos."
	MessageNotFound = "CNPJ não encontrado."
	MessageFailed   = "Não foi possível consultar o CNPJ."
)

var (
	// ErrValidation matches lookups rejected before any network call.
	ErrValidation = errors.New("registry: invalid tax id")
	// ErrNotFound matches lookups answered with 404.
	ErrNotFound = errors.New("registry: tax id not found")
	// ErrLookup matches transport, status and decode failures.
	ErrLookup = errors.New("registry: lookup failed")
)

// ValidationError reports a tax id that does not clean to 14 digits.
type ValidationError struct {
	Digits int
}

func (e *ValidationError) Error() string { return MessageInvalid }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a tax id unknown to the registry.
type NotFoundError struct {
	TaxID string
}

func (e *NotFoundError) Error() string { return MessageNotFound }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StatusCode is the status the registry answered with.
func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// LookupError reports any other failure. Upstream holds the registry HTTP
// status when one was received, zero otherwise.
type LookupError struct {
	Upstream int
	Err      error
}

func (e *LookupError) Error() string {
	if e.Upstream > 0 {
		return fmt.Sprintf("Erro ao consultar CNPJ (%d).", e.Upstream)
	}
	return MessageFailed
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// StatusCode is the registry HTTP status, zero when no response was read.
func (e *LookupError) StatusCode() int { return e.Upstream }

// Message returns the inline message for err. Errors that did not originate in
// this package collapse to MessageFailed.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		validation *ValidationError
		notFound   *NotFoundError
		lookup     *LookupError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &lookup):
		return lookup.Error()
	default:
		return MessageFailed
	}
}
