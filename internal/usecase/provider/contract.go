package provider

import (
	"context"

	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// Source reads the raw bytes of a content collection.
type Source interface {
	Read(ctx context.Context, t content.Type) ([]byte, error)
	Describe() string
}

// Decoder turns raw collection bytes into a Collection.
type Decoder func(t content.Type, data []byte) (content.Collection, error)
