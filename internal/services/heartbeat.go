package services

import (
	"sync"
	"time"
)

// HeartbeatTracker guarda o último sinal de vida registrado pelo webhook do
// bot e pelo job de keep-alive.
type HeartbeatTracker struct {
	mu   sync.RWMutex
	last time.Time
}

func NewHeartbeatTracker() *HeartbeatTracker {
	return &HeartbeatTracker{}
}

func (t *HeartbeatTracker) Beat() {
	t.mu.Lock()
	t.last = time.Now().UTC()
	t.mu.Unlock()
}

func (t *HeartbeatTracker) Last() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// Online considera o bot ativo se o último heartbeat está dentro do limiar.
func (t *HeartbeatTracker) Online(threshold time.Duration) bool {
	last := t.Last()
	if last.IsZero() {
		return false
	}
	return time.Since(last) < threshold
}
