package sources

import (
	"context"

	"github.com/astramesh/chalice/internal/models"
)

// Source interface defines the contract for all content providers.
// Fetch returns at most maxResults normalized items for the query; a
// returned error never aborts an aggregation, it only costs the source
// its items for that request.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, maxResults int) ([]models.ContentItem, error)
	Enabled() bool
}
