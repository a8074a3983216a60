package vpc

import "errors"

// Sentinel errors for caller-correctable failures. Anything else
// returned by the managers wraps an underlying primitive failure.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidCIDR   = errors.New("invalid CIDR")
	ErrInvalidType   = errors.New("invalid subnet type")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
