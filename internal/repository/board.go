package repository

import (
	"context"
	"time"

	"github.com/vinay-ml/RetroSphere/internal/domain"
)

// BoardRepository is the persistence collaborator for the board aggregate.
// Implementations store one record per board holding the full nested tree;
// Save replaces that record wholesale (last write wins, no versioning).
type BoardRepository interface {
	// FindByID loads the full aggregate. Returns ErrBoardNotFound when the
	// board does not exist.
	FindByID(ctx context.Context, id string) (*domain.Board, error)

	// FindAll lists every stored board.
	FindAll(ctx context.Context) ([]domain.Board, error)

	// Save persists the whole aggregate, creating the record when it does
	// not exist yet.
	Save(ctx context.Context, board *domain.Board) error

	// Delete removes the board record and with it the entire nested tree.
	// Returns ErrBoardNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error

	// FindUpdatedBefore lists boards whose last mutation predates cutoff.
	// Used by the retention cleanup job.
	FindUpdatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Board, error)
}

// BoardCache is a read-through cache for board aggregates, sitting in front
// of BoardRepository on the hot GetBoard path. A miss is reported as
// ErrNotFound; cache failures are never fatal to the caller.
type BoardCache interface {
	Get(ctx context.Context, id string) (*domain.Board, error)
	Set(ctx context.Context, board *domain.Board, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}
