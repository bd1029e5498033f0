// Package tasks defines the background task types and their payloads.
package tasks

import (
	"encoding/json"
	"time"
)

// Task type constants.
const (
	TypeBoardKeepAlive = "board:keepalive" // periodic self-ping to keep the host warm
	TypeBoardCleanup   = "board:cleanup"   // retire boards idle past the retention window
)

// BoardKeepAlivePayload carries the URL the keepalive task should hit.
type BoardKeepAlivePayload struct {
	TargetURL string `json:"targetUrl"`
}

// NewBoardKeepAliveTask builds the serialized payload for a keepalive task.
func NewBoardKeepAliveTask(targetURL string) ([]byte, error) {
	return json.Marshal(BoardKeepAlivePayload{TargetURL: targetURL})
}

// BoardCleanupPayload carries the retention window for a cleanup run. Boards
// whose last update is older than Retention are deleted.
type BoardCleanupPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewBoardCleanupTask builds the serialized payload for a cleanup task.
func NewBoardCleanupTask(retention time.Duration) ([]byte, error) {
	return json.Marshal(BoardCleanupPayload{Retention: retention})
}
