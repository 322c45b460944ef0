package dashboard

import (
	"sync"
	"time"
)

// Registry keeps one manager board per session.
type Registry struct {
	api      API
	pageSize int

	mu     sync.Mutex
	boards map[string]*ManagerBoard
}

func NewRegistry(api API, pageSize int) *Registry {
	return &Registry{
		api:      api,
		pageSize: pageSize,
		boards:   map[string]*ManagerBoard{},
	}
}

// Board returns the board for sessionID, creating it on first use.
func (r *Registry) Board(sessionID string) *ManagerBoard {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[sessionID]
	if !ok {
		board = NewManagerBoard(r.api, r.pageSize)
		r.boards[sessionID] = board
	}
	return board
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, sessionID)
}

// Prune drops boards idle for longer than maxIdle.
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, board := range r.boards {
		if board.idleSince().Before(cutoff) {
			delete(r.boards, id)
			dropped++
		}
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}
