package store

import (
	"context"

	"github.com/jimezsa/jobsweep/internal/models"
)

// Sink persists the listings of one run.
type Sink interface {
	Append(ctx context.Context, runID string, listings []models.Listing) error
	Close() error
}
