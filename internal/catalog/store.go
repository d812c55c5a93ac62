// internal/catalog/store.go
package catalog

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

// ErrNotFound is returned when no item exists for the given ID.
var ErrNotFound = errors.New("catalog: item not found")

// ErrBorrowed is returned by MarkBorrowed when the item is already out.
var ErrBorrowed = errors.New("catalog: item is already borrowed")

// ItemStore is the persistence boundary for catalog items.
// MarkBorrowed flips the borrowed flag atomically: of two concurrent
// calls on the same available item, exactly one succeeds and the other
// gets ErrBorrowed.
type ItemStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Save(ctx context.Context, item *Item) error
	MarkBorrowed(ctx context.Context, id uuid.UUID) error
	SearchByTitle(ctx context.Context, query string) ([]*Item, error)
}

// SQLItemStore persists items through database/sql. The SQL is kept
// portable between postgres and sqlite; the schema is created by
// platform/db.
type SQLItemStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewSQLItemStore(db *sql.DB) *SQLItemStore {
	return &SQLItemStore{
		db:     db,
		tracer: otel.Tracer("libris/catalog"),
	}
}

func (s *SQLItemStore) FindByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.store.find",
		trace.WithAttributes(attribute.String("item.id", id.String())),
	)
	defer span.End()

	query := `
		SELECT id, title, creator, category, borrowed, created_at
		FROM items
		WHERE id = $1
	`
	item := &Item{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Creator,
		&item.Category,
		&item.Borrowed,
		&item.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

func (s *SQLItemStore) Save(ctx context.Context, item *Item) error {
	ctx, span := s.tracer.Start(ctx, "catalog.store.save",
		trace.WithAttributes(attribute.String("item.id", item.ID.String())),
	)
	defer span.End()

	query := `
		INSERT INTO items (id, title, creator, category, borrowed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			creator = excluded.creator,
			category = excluded.category,
			borrowed = excluded.borrowed
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Creator, string(item.Category), item.Borrowed, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (s *SQLItemStore) MarkBorrowed(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "catalog.store.mark_borrowed",
		trace.WithAttributes(attribute.String("item.id", id.String())),
	)
	defer span.End()

	// The WHERE clause is the compare-and-swap: a concurrent borrow
	// that already flipped the flag leaves zero rows to update.
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET borrowed = TRUE WHERE id = $1 AND NOT borrowed`, id)
	if err != nil {
		return fmt.Errorf("mark item borrowed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark item borrowed: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("mark item borrowed: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrBorrowed
	}
	return nil
}

func (s *SQLItemStore) SearchByTitle(ctx context.Context, query string) ([]*Item, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.store.search")
	defer span.End()

	stmt := `
		SELECT id, title, creator, category, borrowed, created_at
		FROM items
		WHERE lower(title) LIKE '%' || lower($1) || '%'
		ORDER BY title
	`
	rows, err := s.db.QueryContext(ctx, stmt, query)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Creator,
			&item.Category,
			&item.Borrowed,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
