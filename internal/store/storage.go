package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidField      = errors.New("invalid field name")
	QueryTimeoutDuration = time.Second * 5
)

// defaultPageLimit is the page size callers get when they pass no limit.
const defaultPageLimit = 100

type Storage struct {
	Reviewers interface {
		Create(context.Context, ReviewerCreate) (*Reviewer, error)
		GetByID(context.Context, uuid.UUID) (*Reviewer, error)
		GetByUsername(context.Context, string) (*Reviewer, error)
		GetByEmail(context.Context, string) (*Reviewer, error)
		GetAll(ctx context.Context, skip, limit int) ([]Reviewer, error)
		Update(context.Context, uuid.UUID, ReviewerUpdate) (*Reviewer, error)
		Delete(context.Context, uuid.UUID) (bool, error)
	}
	ReviewedObjects interface {
		Create(context.Context, ReviewedObjectCreate) (*ReviewedObject, error)
		GetByID(context.Context, uuid.UUID) (*ReviewedObject, error)
		GetByTypeAndID(ctx context.Context, objectType, externalID string) (*ReviewedObject, error)
		GetByType(ctx context.Context, objectType string, skip, limit int) ([]ReviewedObject, error)
		GetAll(ctx context.Context, skip, limit int) ([]ReviewedObject, error)
		Update(context.Context, uuid.UUID, ReviewedObjectUpdate) (*ReviewedObject, error)
		Delete(context.Context, uuid.UUID) (bool, error)
	}
	Reviews interface {
		Create(context.Context, ReviewCreate) (*Review, error)
		GetByID(context.Context, uuid.UUID) (*Review, error)
		GetByReviewerAndObject(ctx context.Context, reviewerID, objectID uuid.UUID) (*Review, error)
		GetByReviewer(ctx context.Context, reviewerID uuid.UUID, skip, limit int) ([]Review, error)
		GetByObject(ctx context.Context, objectID uuid.UUID, skip, limit int) ([]Review, error)
		GetAll(ctx context.Context, skip, limit int) ([]Review, error)
		Update(context.Context, uuid.UUID, ReviewUpdate) (*Review, error)
		Delete(context.Context, uuid.UUID) (bool, error)
		Stats(context.Context, uuid.UUID) (*ReviewStats, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Reviewers:       &ReviewersStore{db},
		ReviewedObjects: &ReviewedObjectsStore{db},
		Reviews:         &ReviewsStore{db},
	}
}

// withTx runs fn inside a transaction. Any error from fn rolls the whole
// transaction back before it is surfaced, so a failed write never leaves a
// partial row behind.
func withTx(db *pgxpool.Pool, ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// normalizePage clamps pagination arguments: a negative offset becomes 0 and a
// missing or non-positive limit falls back to defaultPageLimit.
func normalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return skip, limit
}

// checkColumns rejects update keys outside the allowed column list.
func checkColumns(data map[string]any, allowed []string) error {
	for field := range data {
		if !slices.Contains(allowed, field) {
			return fmt.Errorf("%w: %s", ErrInvalidField, field)
		}
	}
	return nil
}

// updateSet collects SET clauses for a partial update. Only columns the caller
// explicitly provided are added, so absent fields keep their stored values
// while a provided nil clears the column. Placeholder numbering starts at $1;
// the WHERE argument uses next().
type updateSet struct {
	cols []string
	args []any
}

func (u *updateSet) add(col string, val any) {
	u.cols = append(u.cols, col)
	u.args = append(u.args, val)
}

func (u *updateSet) empty() bool { return len(u.cols) == 0 }

// clause renders the SET list, always appending updated_at = now() so every
// effective update refreshes the row's timestamp.
func (u *updateSet) clause() string {
	parts := make([]string, 0, len(u.cols)+1)
	for i, col := range u.cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", col, i+1))
	}
	parts = append(parts, "updated_at = now()")
	return strings.Join(parts, ", ")
}

// next is the placeholder index following the collected values.
func (u *updateSet) next() int { return len(u.args) + 1 }
