package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
	"github.com/vinay-ml/RetroSphere/internal/repository/mocks"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

const testCacheTTL = 10 * time.Minute

func newBoardServiceFixture() (*service.BoardService, *mocks.BoardRepository, *mocks.BoardCache, *mockBroadcaster) {
	repo := new(mocks.BoardRepository)
	cache := new(mocks.BoardCache)
	events := new(mockBroadcaster)
	return service.NewBoardService(repo, cache, events, testCacheTTL), repo, cache, events
}

func TestBoardService_CreateBoard_Success(t *testing.T) {
	// Arrange
	svc, repo, cache, events := newBoardServiceFixture()
	ctx := context.Background()

	repo.On("Save", ctx, mock.MatchedBy(func(b *domain.Board) bool {
		return b.Title == "Sprint Retro" && b.ID != ""
	})).Return(nil).Once()
	cache.On("Set", ctx, mock.AnythingOfType("*domain.Board"), testCacheTTL).Return(nil).Once()
	events.On("Publish", anyEventNamed(dto.EventBoardCreated)).Once()

	// Act
	board, err := svc.CreateBoard(ctx, "Sprint Retro", true)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, board)
	assert.True(t, board.IsAnonymous)
	assert.NotEmpty(t, board.ID)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBoardService_CreateBoard_EmptyTitle(t *testing.T) {
	svc, repo, _, events := newBoardServiceFixture()

	_, err := svc.CreateBoard(context.Background(), "", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBoardService_CreateBoard_SaveFailsSuppressesBroadcast(t *testing.T) {
	svc, repo, _, events := newBoardServiceFixture()
	ctx := context.Background()

	repo.On("Save", ctx, mock.AnythingOfType("*domain.Board")).Return(errors.New("db down")).Once()

	_, err := svc.CreateBoard(ctx, "Retro", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
	events.AssertNotCalled(t, "Publish", mock.Anything)
	repo.AssertExpectations(t)
}

func TestBoardService_GetBoard_CacheHitSkipsStore(t *testing.T) {
	svc, repo, cache, _ := newBoardServiceFixture()
	ctx := context.Background()
	cached := domain.NewBoard("Cached Retro", false)

	cache.On("Get", ctx, cached.ID).Return(cached, nil).Once()

	board, err := svc.GetBoard(ctx, cached.ID)

	require.NoError(t, err)
	assert.Equal(t, cached.ID, board.ID)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	cache.AssertExpectations(t)
}

func TestBoardService_GetBoard_CacheMissFallsThrough(t *testing.T) {
	svc, repo, cache, _ := newBoardServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Stored Retro", false)

	cache.On("Get", ctx, stored.ID).Return(nil, repository.ErrNotFound).Once()
	repo.On("FindByID", ctx, stored.ID).Return(stored, nil).Once()
	cache.On("Set", ctx, stored, testCacheTTL).Return(nil).Once()

	board, err := svc.GetBoard(ctx, stored.ID)

	require.NoError(t, err)
	assert.Equal(t, stored.ID, board.ID)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestBoardService_GetBoard_NotFound(t *testing.T) {
	svc, repo, cache, _ := newBoardServiceFixture()
	ctx := context.Background()

	cache.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound).Once()
	repo.On("FindByID", ctx, "missing").Return(nil, repository.ErrBoardNotFound).Once()

	_, err := svc.GetBoard(ctx, "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBoardNotFound))
}

func TestBoardService_UpdateBoard_PatchesFields(t *testing.T) {
	svc, repo, cache, events := newBoardServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Old Title", false)
	originalID := stored.ID
	newTitle := "New Title"
	anon := true

	repo.On("FindByID", ctx, originalID).Return(stored, nil).Once()
	repo.On("Save", ctx, mock.MatchedBy(func(b *domain.Board) bool {
		return b.ID == originalID && b.Title == newTitle && b.IsAnonymous
	})).Return(nil).Once()
	cache.On("Set", ctx, mock.AnythingOfType("*domain.Board"), testCacheTTL).Return(nil).Once()
	events.On("Publish", anyEventNamed(dto.EventBoardUpdated)).Once()

	board, err := svc.UpdateBoard(ctx, originalID, service.BoardPatch{Title: &newTitle, IsAnonymous: &anon})

	require.NoError(t, err)
	assert.Equal(t, originalID, board.ID, "updating the title must not recompute the id")
	assert.Equal(t, newTitle, board.Title)
	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBoardService_UpdateBoard_EmptyTitleRejected(t *testing.T) {
	svc, repo, _, events := newBoardServiceFixture()
	ctx := context.Background()
	stored := domain.NewBoard("Title", false)
	empty := ""

	repo.On("FindByID", ctx, stored.ID).Return(stored, nil).Once()

	_, err := svc.UpdateBoard(ctx, stored.ID, service.BoardPatch{Title: &empty})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrValidation))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBoardService_DeleteBoard_PublishesDeletionMarker(t *testing.T) {
	svc, repo, cache, events := newBoardServiceFixture()
	ctx := context.Background()

	repo.On("Delete", ctx, "board-1").Return(nil).Once()
	cache.On("Invalidate", ctx, "board-1").Return(nil).Once()
	events.On("Publish", mock.MatchedBy(func(event dto.Event) bool {
		marker, ok := event.Payload.(dto.DeletionMarker)
		return event.Name == dto.EventBoardDeleted && ok && marker.BoardID == "board-1" && marker.FeedbackID == ""
	})).Once()

	err := svc.DeleteBoard(ctx, "board-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBoardService_DeleteBoard_NotFound(t *testing.T) {
	svc, repo, _, events := newBoardServiceFixture()
	ctx := context.Background()

	repo.On("Delete", ctx, "missing").Return(repository.ErrBoardNotFound).Once()

	err := svc.DeleteBoard(ctx, "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBoardNotFound))
	events.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestBoardService_ListBoards(t *testing.T) {
	svc, repo, _, _ := newBoardServiceFixture()
	ctx := context.Background()
	stored := []domain.Board{*domain.NewBoard("A", false), *domain.NewBoard("B", true)}

	repo.On("FindAll", ctx).Return(stored, nil).Once()

	boards, err := svc.ListBoards(ctx)

	require.NoError(t, err)
	assert.Len(t, boards, 2)
	repo.AssertExpectations(t)
}
