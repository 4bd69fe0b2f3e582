package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeartbeatTracker(t *testing.T) {
	tracker := NewHeartbeatTracker()

	assert.True(t, tracker.Last().IsZero())
	assert.False(t, tracker.Online(10*time.Minute))

	tracker.Beat()
	assert.False(t, tracker.Last().IsZero())
	assert.True(t, tracker.Online(10*time.Minute))

	// limiar no passado
	assert.False(t, tracker.Online(-time.Second))
}
