// internal/membership/store.go
package membership

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

// ErrNotFound is returned when no member exists for the given key.
var ErrNotFound = errors.New("membership: member not found")

// MemberStore is the persistence boundary for members.
type MemberStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	FindByEmail(ctx context.Context, email string) (*Member, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, member *Member) error
}

// SQLMemberStore persists members through database/sql.
type SQLMemberStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewSQLMemberStore(db *sql.DB) *SQLMemberStore {
	return &SQLMemberStore{
		db:     db,
		tracer: otel.Tracer("libris/membership"),
	}
}

const memberColumns = `id, email, name, fine_balance, password_hash, salt, created_at`

func (s *SQLMemberStore) FindByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.store.find",
		trace.WithAttributes(attribute.String("member.id", id.String())),
	)
	defer span.End()

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return s.scanRow(s.db.QueryRowContext(ctx, query, id))
}

func (s *SQLMemberStore) FindByEmail(ctx context.Context, email string) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.store.find_by_email")
	defer span.End()

	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	return s.scanRow(s.db.QueryRowContext(ctx, query, email))
}

func (s *SQLMemberStore) scanRow(row *sql.Row) (*Member, error) {
	member := &Member{}
	err := row.Scan(
		&member.ID,
		&member.Email,
		&member.Name,
		&member.FineBalance,
		&member.PasswordHash,
		&member.Salt,
		&member.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return member, nil
}

func (s *SQLMemberStore) Save(ctx context.Context, member *Member) error {
	ctx, span := s.tracer.Start(ctx, "membership.store.save",
		trace.WithAttributes(attribute.String("member.id", member.ID.String())),
	)
	defer span.End()

	query := `
		INSERT INTO members (id, email, name, fine_balance, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			fine_balance = excluded.fine_balance,
			password_hash = excluded.password_hash,
			salt = excluded.salt
	`
	_, err := s.db.ExecContext(ctx, query,
		member.ID, member.Email, member.Name, member.FineBalance,
		member.PasswordHash, member.Salt, member.CreatedAt)
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (s *SQLMemberStore) Delete(ctx context.Context, member *Member) error {
	ctx, span := s.tracer.Start(ctx, "membership.store.delete",
		trace.WithAttributes(attribute.String("member.id", member.ID.String())),
	)
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, member.ID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
