package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vinay-ml/RetroSphere/internal/domain"
)

// BoardCache is a mock of repository.BoardCache.
type BoardCache struct {
	mock.Mock
}

func (m *BoardCache) Get(ctx context.Context, id string) (*domain.Board, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*domain.Board); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardCache) Set(ctx context.Context, board *domain.Board, ttl time.Duration) error {
	args := m.Called(ctx, board, ttl)
	return args.Error(0)
}

func (m *BoardCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
