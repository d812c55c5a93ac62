// internal/membership/memory.go
package membership

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryMemberStore keeps members in a mutex-guarded map, handing out
// copies so callers cannot mutate stored state without a Save.
type MemoryMemberStore struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Member
}

func NewMemoryMemberStore() *MemoryMemberStore {
	return &MemoryMemberStore{members: make(map[uuid.UUID]Member)}
}

func (s *MemoryMemberStore) FindByID(_ context.Context, id uuid.UUID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member, ok := s.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &member, nil
}

func (s *MemoryMemberStore) FindByEmail(_ context.Context, email string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, member := range s.members {
		if member.Email == email {
			cp := member
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryMemberStore) Save(_ context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[member.ID] = *member
	return nil
}

func (s *MemoryMemberStore) Delete(_ context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.members, member.ID)
	return nil
}
