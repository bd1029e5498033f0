package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
	"github.com/vinay-ml/RetroSphere/internal/repository/mocks"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

func newMembershipServiceFixture() (*service.MembershipService, *mocks.BoardRepository, *mocks.BoardCache, *mockBroadcaster) {
	repo := new(mocks.BoardRepository)
	cache := new(mocks.BoardCache)
	events := new(mockBroadcaster)
	return service.NewMembershipService(repo, cache, events, testCacheTTL), repo, cache, events
}

func TestMembershipService_Join_NewMember(t *testing.T) {
	// Arrange
	svc, repo, cache, events := newMembershipServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Retro", false)

	repo.On("FindByID", ctx, stored.ID).Return(stored, nil).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Board")).Return(nil).Once()
	cache.On("Set", ctx, mock.AnythingOfType("*domain.Board"), testCacheTTL).Return(nil).Once()
	events.On("Publish", anyEventNamed(dto.EventBoardUpdated)).Once()

	// Act
	board, member, err := svc.Join(ctx, stored.ID, "alice")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, "alice", member.Name)
	assert.NotEmpty(t, member.UserID)
	assert.Len(t, board.TeamMembers, 1)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestMembershipService_Join_RejoinKeepsIdentity(t *testing.T) {
	svc, repo, cache, events := newMembershipServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Retro", false)
	existing := stored.Join("alice")
	existingID := existing.UserID

	repo.On("FindByID", ctx, stored.ID).Return(stored, nil).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Board")).Return(nil).Once()
	cache.On("Set", ctx, mock.AnythingOfType("*domain.Board"), testCacheTTL).Return(nil).Once()
	events.On("Publish", anyEventNamed(dto.EventBoardUpdated)).Once()

	board, member, err := svc.Join(ctx, stored.ID, "alice")

	require.NoError(t, err)
	assert.Equal(t, existingID, member.UserID)
	assert.Len(t, board.TeamMembers, 1)
}

func TestMembershipService_Join_EmptyName(t *testing.T) {
	svc, repo, _, events := newMembershipServiceFixture()

	_, _, err := svc.Join(context.Background(), "board-1", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMembershipService_Join_BoardNotFound(t *testing.T) {
	svc, repo, _, events := newMembershipServiceFixture()
	ctx := context.Background()

	repo.On("FindByID", ctx, "missing").Return(nil, repository.ErrBoardNotFound).Once()

	_, _, err := svc.Join(ctx, "missing", "alice")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBoardNotFound))
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMembershipService_Join_SaveFailureSuppressesBroadcast(t *testing.T) {
	svc, repo, _, events := newMembershipServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Retro", false)

	repo.On("FindByID", ctx, stored.ID).Return(stored, nil).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*domain.Board")).Return(errors.New("db down")).Once()

	_, _, err := svc.Join(ctx, stored.ID, "alice")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
	events.AssertNotCalled(t, "Publish", mock.Anything)
}
