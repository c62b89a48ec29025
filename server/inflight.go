package server

import (
	"context"
	"sync"
)

// inflightStore remembers the running request of each client so that a new
// request from the same client abandons the old one.
type inflightStore struct {
	mu      sync.Mutex
	entries map[string]*inflight
}

type inflight struct {
	cancel context.CancelFunc
}

func newInflightStore() *inflightStore {
	return &inflightStore{entries: make(map[string]*inflight)}
}

// begin derives a cancellable context for client and cancels the client's
// previous request, if any. The returned release must be called when the
// request finishes. Requests without a client id are never superseded.
func (s *inflightStore) begin(parent context.Context, client string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	if client == "" {
		return ctx, cancel
	}
	entry := &inflight{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.entries[client]; ok {
		prev.cancel()
	}
	s.entries[client] = entry
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.entries[client] == entry {
			delete(s.entries, client)
		}
		s.mu.Unlock()
		cancel()
	}
}

func (s *inflightStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
