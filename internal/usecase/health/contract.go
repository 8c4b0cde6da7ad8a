package health

import (
	"context"

	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ContentChecker exposes a provider's load state.
type ContentChecker interface {
	Type() content.Type
	State() provider.State
}
