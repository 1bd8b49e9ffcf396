package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-inc/taskhive/pkg/models"
)

func TestStartTask(t *testing.T) {
	assert.Equal(t, models.StatusInProgress, StartTask())
}

func TestCompleteTask_ProducesMarker(t *testing.T) {
	taskID := uuid.New()
	actorID := uuid.New()
	now := time.Now()

	result := CompleteTask(taskID, actorID, now)

	assert.Equal(t, models.StatusCompleted, result.Status)
	require.NotNil(t, result.Marker)
	assert.Equal(t, taskID, result.Marker.TaskID)
	assert.Equal(t, actorID, result.Marker.CompletedBy)
	assert.Equal(t, now, result.Marker.CompletedAt)
}

func TestCompleteTask_RepeatCallsYieldDistinctMarkers(t *testing.T) {
	taskID := uuid.New()
	actorID := uuid.New()

	first := CompleteTask(taskID, actorID, time.Now())
	second := CompleteTask(taskID, actorID, time.Now())

	// Completion history is append-only: a second completion is a second
	// event, not a no-op.
	assert.NotEqual(t, first.Marker.ID, second.Marker.ID)
	assert.Equal(t, first.Marker.TaskID, second.Marker.TaskID)
}

func TestPendingMarkerNeeded(t *testing.T) {
	tests := []struct {
		status models.Status
		want   bool
	}{
		{models.StatusNA, true},
		{models.StatusInProgress, true},
		{models.StatusOnHold, false},
		{models.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, PendingMarkerNeeded(tt.status))
		})
	}
}
