package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
)

func TestNewBoardEvent_WireShape(t *testing.T) {
	board := domain.NewBoard("Sprint Retro", false)
	board.Join("alice")

	event := dto.NewBoardEvent(dto.EventFeedbackAdded, board)
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &decoded))

	// The envelope carries exactly "event" and "data"; the routing board id
	// never goes over the wire.
	assert.Contains(t, decoded, "event")
	assert.Contains(t, decoded, "data")
	assert.NotContains(t, string(payload), `"BoardID"`)

	var name string
	require.NoError(t, json.Unmarshal(decoded["event"], &name))
	assert.Equal(t, dto.EventFeedbackAdded, name)

	var view dto.BoardView
	require.NoError(t, json.Unmarshal(decoded["data"], &view))
	assert.Equal(t, board.ID, view.ID)
	require.Len(t, view.TeamMembers, 1)
}

func TestNewDeletionEvent_OmitsEmptyIDs(t *testing.T) {
	event := dto.NewDeletionEvent(dto.EventBoardDeleted, "board-1", "", "")
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	assert.Contains(t, string(payload), `"boardId":"board-1"`)
	assert.NotContains(t, string(payload), "feedbackId")
	assert.NotContains(t, string(payload), "commentId")
}

func TestNewDeletionEvent_CommentMarker(t *testing.T) {
	event := dto.NewDeletionEvent(dto.EventCommentDeleted, "board-1", "fb-1", "c-1")

	marker, ok := event.Payload.(dto.DeletionMarker)
	require.True(t, ok)
	assert.Equal(t, "board-1", marker.BoardID)
	assert.Equal(t, "fb-1", marker.FeedbackID)
	assert.Equal(t, "c-1", marker.CommentID)
	assert.Equal(t, "board-1", event.BoardID)
}

func TestNewTypingEvent_PayloadIsBareParticipantID(t *testing.T) {
	event := dto.NewTypingEvent(dto.EventMemberTyping, "board-1", "alice-1")
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"memberTyping","data":"alice-1"}`, string(payload))
}
