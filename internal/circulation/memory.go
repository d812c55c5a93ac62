// internal/circulation/memory.go
package circulation

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryLoanStore keeps loans in a mutex-guarded slice, handing out
// copies so callers cannot mutate stored state without an Update.
type MemoryLoanStore struct {
	mu    sync.RWMutex
	loans []Loan
}

func NewMemoryLoanStore() *MemoryLoanStore {
	return &MemoryLoanStore{}
}

func (s *MemoryLoanStore) Save(_ context.Context, loan *Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loans = append(s.loans, *loan)
	return nil
}

func (s *MemoryLoanStore) Update(_ context.Context, loan *Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.loans {
		if s.loans[i].ID == loan.ID {
			s.loans[i] = *loan
			return nil
		}
	}
	return ErrLoanNotFound
}

func (s *MemoryLoanStore) FindAllActive(_ context.Context) ([]*Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(l *Loan) bool { return l.Active }), nil
}

func (s *MemoryLoanStore) FindActiveByMember(_ context.Context, memberID uuid.UUID) ([]*Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(l *Loan) bool { return l.Active && l.MemberID == memberID }), nil
}

func (s *MemoryLoanStore) FindActiveByMemberAndItem(_ context.Context, memberID, itemID uuid.UUID) (*Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.loans {
		l := s.loans[i]
		if l.Active && l.MemberID == memberID && l.ItemID == itemID {
			return &l, nil
		}
	}
	return nil, ErrLoanNotFound
}

func (s *MemoryLoanStore) CountActiveByMember(_ context.Context, memberID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for i := range s.loans {
		if s.loans[i].Active && s.loans[i].MemberID == memberID {
			count++
		}
	}
	return count, nil
}

// collect returns matching copies ordered by due date, the same
// contract the SQL store provides.
func (s *MemoryLoanStore) collect(match func(*Loan) bool) []*Loan {
	var out []*Loan
	for i := range s.loans {
		if match(&s.loans[i]) {
			cp := s.loans[i]
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueOn.Before(out[j].DueOn) })
	return out
}
