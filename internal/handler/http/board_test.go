package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	httpHandler "github.com/vinay-ml/RetroSphere/internal/handler/http"
	"github.com/vinay-ml/RetroSphere/internal/repository"
	"github.com/vinay-ml/RetroSphere/internal/repository/mocks"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// nopBroadcaster satisfies service.Broadcaster for handler tests; the
// broadcast side is covered by the hub and service tests.
type nopBroadcaster struct{}

func (nopBroadcaster) Publish(dto.Event) {}

type handlerFixture struct {
	router *gin.Engine
	repo   *mocks.BoardRepository
	cache  *mocks.BoardCache
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := new(mocks.BoardRepository)
	cache := new(mocks.BoardCache)
	events := nopBroadcaster{}
	ttl := time.Minute

	boardService := service.NewBoardService(repo, cache, events, ttl)
	feedbackService := service.NewFeedbackService(repo, cache, events, ttl)
	membershipService := service.NewMembershipService(repo, cache, events, ttl)

	boardHandler := httpHandler.NewBoardHandler(boardService)
	feedbackHandler := httpHandler.NewFeedbackHandler(feedbackService, boardService)
	commentHandler := httpHandler.NewCommentHandler(feedbackService)
	memberHandler := httpHandler.NewMemberHandler(membershipService)

	router := gin.New()
	boards := router.Group("/boards")
	{
		boards.POST("", boardHandler.Create)
		boards.GET("", boardHandler.List)
		boards.GET("/:boardId", boardHandler.Get)
		boards.PUT("/:boardId", boardHandler.Update)
		boards.DELETE("/:boardId", boardHandler.Delete)
		boards.POST("/:boardId/feedback", feedbackHandler.Add)
		boards.GET("/:boardId/feedback", feedbackHandler.List)
		boards.POST("/:boardId/feedback/:feedbackId/like", feedbackHandler.Like)
		boards.POST("/:boardId/feedback/:feedbackId/comments", commentHandler.Add)
	}
	router.POST("/join/:boardId", memberHandler.Join)

	return &handlerFixture{router: router, repo: repo, cache: cache}
}

func (f *handlerFixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	f.router.ServeHTTP(w, req)
	return w
}

func (f *handlerFixture) expectCacheRefresh() {
	f.cache.On("Set", mock.Anything, mock.AnythingOfType("*domain.Board"), mock.Anything).Return(nil)
}

func TestBoardHandler_Create(t *testing.T) {
	f := newHandlerFixture(t)
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Board")).Return(nil).Once()
	f.expectCacheRefresh()

	w := f.do(http.MethodPost, "/boards", `{"title":"Sprint Retro","isAnonymous":true}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["boardId"], "Sprint-Retro:")
}

func TestBoardHandler_Create_MissingTitle(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(http.MethodPost, "/boards", `{"isAnonymous":true}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBoardHandler_Get_ReturnsSummary(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Retro", false)
	board.Join("alice")
	board.AddFeedback(domain.CategoryGood, "not in summary", "")

	f.cache.On("Get", mock.Anything, board.ID).Return(board, nil).Once()

	w := f.do(http.MethodGet, "/boards/"+board.ID, "")

	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.BoardSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, board.ID, summary.ID)
	require.Len(t, summary.TeamMembers, 1)
	assert.NotContains(t, w.Body.String(), "feedback")
}

func TestBoardHandler_Get_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	f.cache.On("Get", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()
	f.repo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrBoardNotFound).Once()

	w := f.do(http.MethodGet, "/boards/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMemberHandler_Join_ResponseShape(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Retro", true)
	f.repo.On("FindByID", mock.Anything, board.ID).Return(board, nil).Once()
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Board")).Return(nil).Once()
	f.expectCacheRefresh()

	w := f.do(http.MethodPost, "/join/"+board.ID, `{"name":"alice"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Message     string           `json:"message"`
		ID          string           `json:"_id"`
		Title       string           `json:"title"`
		UserID      string           `json:"userId"`
		IsAnonymous bool             `json:"isAnonymous"`
		TeamMembers []dto.MemberView `json:"teamMembers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, board.ID, resp.ID)
	assert.True(t, resp.IsAnonymous)
	assert.NotEmpty(t, resp.UserID)
	require.Len(t, resp.TeamMembers, 1)
	assert.Equal(t, "alice", resp.TeamMembers[0].Name)
}

func TestMemberHandler_Join_MissingName(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(http.MethodPost, "/join/board-1", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandler_Add_InvalidCategory(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(http.MethodPost, "/boards/board-1/feedback", `{"type":"Nonsense","content":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedbackHandler_Add_ReturnsFullBoard(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Retro", false)
	f.repo.On("FindByID", mock.Anything, board.ID).Return(board, nil).Once()
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Board")).Return(nil).Once()
	f.expectCacheRefresh()

	w := f.do(http.MethodPost, "/boards/"+board.ID+"/feedback", `{"type":"Good","content":"great demo","userId":"alice-1"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var view dto.BoardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Feedback, 1)
	assert.Equal(t, "Good", view.Feedback[0].Type)
	assert.NotContains(t, w.Body.String(), "likedBy")
}

func TestFeedbackHandler_List_ReturnsFlattenedView(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Q1 Retro", true)
	board.AddFeedback(domain.CategoryIdeas, "pair more", "")
	f.cache.On("Get", mock.Anything, board.ID).Return(board, nil).Once()

	w := f.do(http.MethodGet, "/boards/"+board.ID+"/feedback", "")

	require.Equal(t, http.StatusOK, w.Code)
	var details []dto.FeedbackDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Len(t, details, 1)
	assert.Equal(t, "Q1 Retro", details[0].Title)
	assert.True(t, details[0].IsAnonymous)
}

func TestFeedbackHandler_Like_DuplicateStillReturnsBoard(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Retro", false)
	feedback := board.AddFeedback(domain.CategoryGood, "nice", "")
	feedback.React("alice-1", domain.PolarityLike)
	f.repo.On("FindByID", mock.Anything, board.ID).Return(board, nil).Once()

	w := f.do(http.MethodPost, "/boards/"+board.ID+"/feedback/"+feedback.ID+"/like", `{"userId":"alice-1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var view dto.BoardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Feedback[0].Likes, "the duplicate like must not bump the counter")
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCommentHandler_Add_FeedbackNotFound(t *testing.T) {
	f := newHandlerFixture(t)
	board := domain.NewBoard("Retro", false)
	f.repo.On("FindByID", mock.Anything, board.ID).Return(board, nil).Once()

	w := f.do(http.MethodPost, "/boards/"+board.ID+"/feedback/no-such-card/comments", `{"text":"hi"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
