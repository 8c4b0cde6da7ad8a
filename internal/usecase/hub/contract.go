package hub

import (
	"context"

	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

// ContentProvider supplies one tab's collection.
type ContentProvider interface {
	State() provider.State
	Refresh(ctx context.Context) error
}
