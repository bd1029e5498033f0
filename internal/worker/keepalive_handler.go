package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/tasks"
)

// KeepAliveHandler pings the configured URL so the hosting platform never
// idles the instance out while boards are in use.
type KeepAliveHandler struct {
	client *http.Client
}

// NewKeepAliveHandler creates a KeepAliveHandler.
func NewKeepAliveHandler() *KeepAliveHandler {
	return &KeepAliveHandler{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// ProcessTask implements asynq.Handler.
func (h *KeepAliveHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	var payload tasks.BoardKeepAlivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal keepalive payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.TargetURL == "" {
		logCtx.Debug("Keepalive task has no target URL, nothing to do")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.TargetURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build keepalive request: %v: %w", err, asynq.SkipRetry)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		logCtx.WithError(err).Warn("Keepalive ping failed")
		return fmt.Errorf("keepalive ping failed: %w", err)
	}
	defer resp.Body.Close()

	logCtx.WithField("status_code", resp.StatusCode).Info("Keepalive ping sent")
	return nil
}
