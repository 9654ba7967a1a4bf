// school-control/internal/billing/errors.go
package billing

import "errors"

// Sentinel errors shared by the billing services. Handlers map these to HTTP
// statuses with errors.Is; everything else is a 500.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflicting state")
)
