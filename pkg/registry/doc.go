// Package registry looks up Brazilian company registrations (CNPJ) on
// BrasilAPI and normalizes the answer into a Record ready to autofill the
// briefing form.
//
//	client := registry.New(registry.WithTimeout(5*time.Second))
//	rec, err := client.Lookup(ctx, "12.345.678/0001-95")
//	if err != nil {
//		msg := registry.Message(err) // "CNPJ não encontrado.", ...
//	}
//
// Errors are *ValidationError, *NotFoundError or *LookupError and match
// ErrValidation, ErrNotFound and ErrLookup with errors.Is.
package registry
