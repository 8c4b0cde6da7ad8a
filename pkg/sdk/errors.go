package contenthub

import "github.com/kuberocketai/contenthub/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrTabNotFound       = domain.ErrTabNotFound
	ErrItemNotFound      = domain.ErrItemNotFound
	ErrNotLoaded         = domain.ErrNotLoaded
	ErrInvalidContent    = domain.ErrInvalidContent
	ErrSourceUnavailable = domain.ErrSourceUnavailable
	ErrInvalidRequest    = domain.ErrInvalidRequest
)
