// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vinay-ml/RetroSphere/internal/domain"
)

// BoardRepository is a mock of repository.BoardRepository.
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Board); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	args := m.Called(ctx)
	if boards, ok := args.Get(0).([]domain.Board); ok {
		return boards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) Save(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *BoardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BoardRepository) FindUpdatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Board, error) {
	args := m.Called(ctx, cutoff)
	if boards, ok := args.Get(0).([]domain.Board); ok {
		return boards, args.Error(1)
	}
	return nil, args.Error(1)
}
