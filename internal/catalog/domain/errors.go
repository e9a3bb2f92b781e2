package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrForbidden       = errors.New("not allowed to modify this product")
)

// ReloadError reports a write that reached the gateway while the catalog
// reload that follows it failed. The cache catches up on the next refresh.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string { return "catalog reload after write: " + e.Err.Error() }

func (e *ReloadError) Unwrap() error { return e.Err }

// IsReloadOnly reports whether err only concerns the reload after a write.
func IsReloadOnly(err error) bool {
	var re *ReloadError
	return errors.As(err, &re)
}
