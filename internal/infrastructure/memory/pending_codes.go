package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-otp-auth/internal/domain"
)

type codeKey struct {
	purpose  domain.Purpose
	identity string
}

// PendingCodeStore is a process-local pending-code store. Entries live until
// consumed, deleted on an expiry check, or the process exits. It is not shared
// between instances; use the redis or dynamo backing when scaling out.
type PendingCodeStore struct {
	mu      sync.Mutex
	entries map[codeKey]*domain.PendingCode
}

func NewPendingCodeStore() *PendingCodeStore {
	return &PendingCodeStore{entries: make(map[codeKey]*domain.PendingCode)}
}

func (s *PendingCodeStore) Put(_ context.Context, p *domain.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[codeKey{p.Purpose, p.Identity}] = p.Clone()
	return nil
}

// PutIfAbsent stores p only when no entry exists for its key.
func (s *PendingCodeStore) PutIfAbsent(_ context.Context, p *domain.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := codeKey{p.Purpose, p.Identity}
	if _, ok := s.entries[k]; ok {
		return fmt.Errorf("pending code already present: %w", domain.ErrConflict)
	}
	s.entries[k] = p.Clone()
	return nil
}

func (s *PendingCodeStore) Get(_ context.Context, purpose domain.Purpose, identity string) (*domain.PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[codeKey{purpose, identity}]
	if !ok {
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *PendingCodeStore) Delete(_ context.Context, purpose domain.Purpose, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, codeKey{purpose, identity})
	return nil
}

func (s *PendingCodeStore) Consume(_ context.Context, purpose domain.Purpose, identity, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := codeKey{purpose, identity}
	p, ok := s.entries[k]
	if !ok || p.Code != code {
		return fmt.Errorf("pending code already consumed: %w", domain.ErrNotFound)
	}
	delete(s.entries, k)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *PendingCodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
