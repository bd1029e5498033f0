package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
	"github.com/vinay-ml/RetroSphere/internal/service"
	"github.com/vinay-ml/RetroSphere/internal/tasks"
)

// CleanupHandler deletes boards that have gone stale. Each deleted board is
// announced on the broadcast channel so open tabs return to the board list.
type CleanupHandler struct {
	boards repository.BoardRepository
	cache  repository.BoardCache
	events service.Broadcaster
}

// NewCleanupHandler creates a CleanupHandler.
func NewCleanupHandler(boards repository.BoardRepository, cache repository.BoardCache, events service.Broadcaster) *CleanupHandler {
	if boards == nil {
		panic("BoardRepository cannot be nil for CleanupHandler")
	}
	if cache == nil {
		panic("BoardCache cannot be nil for CleanupHandler")
	}
	if events == nil {
		panic("Broadcaster cannot be nil for CleanupHandler")
	}
	return &CleanupHandler{boards: boards, cache: cache, events: events}
}

// ProcessTask implements asynq.Handler.
func (h *CleanupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.BoardCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal cleanup payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Retention <= 0 {
		logCtx.Debug("Cleanup task has no retention window, nothing to do")
		return nil
	}

	cutoff := time.Now().Add(-payload.Retention)
	stale, err := h.boards.FindUpdatedBefore(ctx, cutoff)
	if err != nil {
		logCtx.WithError(err).Error("Failed to find stale boards")
		return fmt.Errorf("failed to find stale boards: %w", err)
	}
	if len(stale) == 0 {
		logCtx.Debug("No stale boards found")
		return nil
	}

	deleted := 0
	for i := range stale {
		boardID := stale[i].ID
		if err := h.boards.Delete(ctx, boardID); err != nil {
			// Keep going; the next run catches whatever failed here.
			logCtx.WithError(err).WithField("board_id", boardID).Warn("Failed to delete stale board")
			continue
		}
		if err := h.cache.Invalidate(ctx, boardID); err != nil {
			logCtx.WithError(err).WithField("board_id", boardID).Warn("Failed to invalidate cache for deleted board")
		}
		h.events.Publish(dto.NewDeletionEvent(dto.EventBoardDeleted, boardID, "", ""))
		deleted++
	}

	logCtx.WithFields(logrus.Fields{"candidates": len(stale), "deleted": deleted}).Info("Board cleanup task processed")
	return nil
}
