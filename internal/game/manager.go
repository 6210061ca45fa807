package game

import (
	"context"
	"sync"
)

// Manager spawns and tracks one controller per in-progress room
type Manager struct {
	deps ControllerDeps

	mu    sync.Mutex
	stops map[string]context.CancelFunc
	wg    sync.WaitGroup
}

func NewManager(deps ControllerDeps) *Manager {
	return &Manager{
		deps:  deps,
		stops: make(map[string]context.CancelFunc),
	}
}

// Ensure starts a controller for the room if one is not already running.
// Called from every state-changing path, so a restarted server resumes
// coordinating a room on its next write.
func (m *Manager) Ensure(roomCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, running := m.stops[roomCode]; running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.stops[roomCode] = cancel

	ctrl := NewController(roomCode, m.deps)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctrl.Run(ctx)
		m.mu.Lock()
		delete(m.stops, roomCode)
		m.mu.Unlock()
	}()
}

// Stop cancels the room's controller if running
func (m *Manager) Stop(roomCode string) {
	m.mu.Lock()
	cancel, ok := m.stops[roomCode]
	m.mu.Unlock()
	if ok {
		cancel()
	}
}

// StopAll cancels every controller and waits for them to exit
func (m *Manager) StopAll() {
	m.mu.Lock()
	for _, cancel := range m.stops {
		cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}
