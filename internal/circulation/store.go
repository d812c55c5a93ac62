// internal/circulation/store.go
package circulation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LoanStore is the persistence boundary for loans. Implementations
// return active loans ordered by due date (oldest first) so overdue
// reports come out deterministic.
type LoanStore interface {
	Save(ctx context.Context, loan *Loan) error
	Update(ctx context.Context, loan *Loan) error
	FindAllActive(ctx context.Context) ([]*Loan, error)
	FindActiveByMember(ctx context.Context, memberID uuid.UUID) ([]*Loan, error)
	FindActiveByMemberAndItem(ctx context.Context, memberID, itemID uuid.UUID) (*Loan, error)
	CountActiveByMember(ctx context.Context, memberID uuid.UUID) (int, error)
}

// SQLLoanStore persists loans through database/sql.
type SQLLoanStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewSQLLoanStore(db *sql.DB) *SQLLoanStore {
	return &SQLLoanStore{
		db:     db,
		tracer: otel.Tracer("libris/circulation"),
	}
}

func (s *SQLLoanStore) Save(ctx context.Context, loan *Loan) error {
	ctx, span := s.tracer.Start(ctx, "circulation.store.save",
		trace.WithAttributes(attribute.String("loan.id", loan.ID.String())),
	)
	defer span.End()

	query := `
		INSERT INTO loans (id, item_id, member_id, borrowed_on, due_on, active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		loan.ID, loan.ItemID, loan.MemberID, loan.BorrowedOn, loan.DueOn, loan.Active)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

func (s *SQLLoanStore) Update(ctx context.Context, loan *Loan) error {
	ctx, span := s.tracer.Start(ctx, "circulation.store.update",
		trace.WithAttributes(attribute.String("loan.id", loan.ID.String())),
	)
	defer span.End()

	query := `UPDATE loans SET active = $1 WHERE id = $2`
	if _, err := s.db.ExecContext(ctx, query, loan.Active, loan.ID); err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	return nil
}

const loanColumns = `id, item_id, member_id, borrowed_on, due_on, active`

func (s *SQLLoanStore) FindAllActive(ctx context.Context) ([]*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.store.find_all_active")
	defer span.End()

	query := `SELECT ` + loanColumns + ` FROM loans WHERE active ORDER BY due_on, id`
	return s.queryLoans(ctx, query)
}

func (s *SQLLoanStore) FindActiveByMember(ctx context.Context, memberID uuid.UUID) ([]*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.store.find_by_member",
		trace.WithAttributes(attribute.String("member.id", memberID.String())),
	)
	defer span.End()

	query := `SELECT ` + loanColumns + ` FROM loans WHERE active AND member_id = $1 ORDER BY due_on, id`
	return s.queryLoans(ctx, query, memberID)
}

func (s *SQLLoanStore) FindActiveByMemberAndItem(ctx context.Context, memberID, itemID uuid.UUID) (*Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.store.find_by_member_and_item")
	defer span.End()

	query := `SELECT ` + loanColumns + ` FROM loans WHERE active AND member_id = $1 AND item_id = $2`
	loan := &Loan{}
	err := s.db.QueryRowContext(ctx, query, memberID, itemID).Scan(
		&loan.ID, &loan.ItemID, &loan.MemberID, &loan.BorrowedOn, &loan.DueOn, &loan.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query loan: %w", err)
	}
	return loan, nil
}

func (s *SQLLoanStore) CountActiveByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.store.count_by_member")
	defer span.End()

	var count int
	query := `SELECT COUNT(*) FROM loans WHERE active AND member_id = $1`
	if err := s.db.QueryRowContext(ctx, query, memberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return count, nil
}

func (s *SQLLoanStore) queryLoans(ctx context.Context, query string, args ...any) ([]*Loan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []*Loan
	for rows.Next() {
		loan := &Loan{}
		if err := rows.Scan(
			&loan.ID, &loan.ItemID, &loan.MemberID, &loan.BorrowedOn, &loan.DueOn, &loan.Active,
		); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, nil
}
