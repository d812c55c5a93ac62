// internal/membership/implementation.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrUnpaidFines blocks unregistration while a fine balance remains.
	ErrUnpaidFines = errors.New("membership: member has unpaid fines")
	// ErrActiveLoans blocks unregistration while loans are still open.
	ErrActiveLoans = errors.New("membership: member has active loans")
	// ErrRateLimited is returned when registrations come in too fast.
	ErrRateLimited = errors.New("membership: rate limit exceeded")
	// ErrInvalidCredentials is returned on a failed authentication.
	ErrInvalidCredentials = errors.New("membership: invalid credentials")
)

// ActiveLoanCounter reports how many active loans a member currently
// holds. Implemented by the circulation loan store.
type ActiveLoanCounter interface {
	CountActiveByMember(ctx context.Context, memberID uuid.UUID) (int, error)
}

// service implements the Service interface.
type service struct {
	store       MemberStore
	loans       ActiveLoanCounter
	rateLimiter *rate.Limiter
}

// NewService creates a new membership service instance.
func NewService(store MemberStore, loans ActiveLoanCounter) Service {
	return &service{
		store:       store,
		loans:       loans,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 registrations per minute
	}
}

// Register creates a new member with a zero fine balance.
func (s *service) Register(ctx context.Context, email, name, password string) (*Member, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	passwordHash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	member := &Member{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		FineBalance:  0,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("save member: %w", err)
	}
	return member, nil
}

// Authenticate verifies a member's credentials and returns the member
// if successful.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Member, error) {
	member, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}

	ok, err := verifyPassword(password, member.Salt, member.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}

// GetMember retrieves a member by their ID.
func (s *service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.store.FindByID(ctx, id)
}

// PayFine decrements the member's fine balance. It reports false
// without touching the balance when the amount is not positive or
// there is nothing to pay. Overpayment clamps the balance to exactly
// zero; the excess is not tracked as credit.
func (s *service) PayFine(ctx context.Context, id uuid.UUID, amount float64) (bool, error) {
	member, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	if amount <= 0 || member.FineBalance <= 0 {
		return false, nil
	}

	member.FineBalance = math.Max(0, member.FineBalance-amount)
	if err := s.store.Save(ctx, member); err != nil {
		return false, fmt.Errorf("save member: %w", err)
	}
	return true, nil
}

// Unregister deletes a member. The checks run in a fixed order and the
// first failing one determines the reported error: unknown member,
// unpaid fines, then active loans.
func (s *service) Unregister(ctx context.Context, id uuid.UUID) error {
	member, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if member.FineBalance > 0 {
		return ErrUnpaidFines
	}

	activeLoans, err := s.loans.CountActiveByMember(ctx, id)
	if err != nil {
		return fmt.Errorf("count active loans: %w", err)
	}
	if activeLoans > 0 {
		return ErrActiveLoans
	}

	if err := s.store.Delete(ctx, member); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
