package output

import (
	"context"

	"jobmatch-assistant/internal/domain"
)

// JobCatalog interface - Output port
// Supplies the whole ordered job catalog for one matching pass.
type JobCatalog interface {
	Jobs(ctx context.Context) ([]domain.Job, error)
}
