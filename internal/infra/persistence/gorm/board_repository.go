// Package gormpersistence implements the repository interfaces on top of
// GORM/MySQL. Each board occupies a single row; the nested member, feedback
// and comment lists live in JSON document columns, so a row write replaces
// the entire tree at once.
package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// GormBoardRepository is the GORM implementation of repository.BoardRepository.
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository creates a GormBoardRepository.
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoardRepository")
	}
	return &GormBoardRepository{db: db}
}

// FindByID loads a board with its full nested tree.
func (r *GormBoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).First(&board, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by id %q: %w", id, err)
	}
	return &board, nil
}

// FindAll lists every board, newest first.
func (r *GormBoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all boards: %w", err)
	}
	return boards, nil
}

// Save writes the whole aggregate row, inserting or replacing by primary
// key. Concurrent saves of the same board follow last-write-wins; there is
// no optimistic versioning by design.
func (r *GormBoardRepository) Save(ctx context.Context, board *domain.Board) error {
	err := r.db.WithContext(ctx).Save(board).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save board %q: %w", board.ID, err)
	}
	return nil
}

// Delete removes the board row; the nested tree disappears with it.
func (r *GormBoardRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Board{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete board %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrBoardNotFound
	}
	return nil
}

// FindUpdatedBefore lists boards untouched since cutoff, for retention
// cleanup.
func (r *GormBoardRepository) FindUpdatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find boards updated before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return boards, nil
}
