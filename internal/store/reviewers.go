package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reviewer struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewerCreate carries the caller-supplied fields for a new reviewer. The
// store assigns id and both timestamps.
type ReviewerCreate struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// ReviewerUpdate is a partial update keyed by column name. An absent key
// leaves the stored value alone; a key explicitly set to nil clears the
// column, so a caller can blank full_name without touching anything else.
type ReviewerUpdate map[string]any

var reviewerUpdateColumns = []string{"username", "email", "full_name"}

func (d ReviewerUpdate) changes() (*updateSet, error) {
	if err := checkColumns(d, reviewerUpdateColumns); err != nil {
		return nil, err
	}
	set := &updateSet{}
	for _, col := range reviewerUpdateColumns {
		if val, ok := d[col]; ok {
			set.add(col, val)
		}
	}
	return set, nil
}

// Validate reports whether the update names only updatable columns, so
// callers can reject a bad field before it reaches the database.
func (d ReviewerUpdate) Validate() error {
	_, err := d.changes()
	return err
}

type ReviewersStore struct {
	db *pgxpool.Pool
}

const reviewerColumns = `id, username, email, full_name, created_at, updated_at`

func scanReviewer(row pgx.Row) (*Reviewer, error) {
	var r Reviewer
	err := row.Scan(&r.ID, &r.Username, &r.Email, &r.FullName, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReviewersStore) Create(ctx context.Context, data ReviewerCreate) (*Reviewer, error) {
	query := `
		INSERT INTO reviewers (id, username, email, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reviewerColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var reviewer *Reviewer
	err := withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		reviewer, err = scanReviewer(tx.QueryRow(ctx, query,
			uuid.New(), data.Username, data.Email, data.FullName))
		return err
	})
	if err != nil {
		return nil, translateErr("create reviewer", err)
	}
	return reviewer, nil
}

func (s *ReviewersStore) GetByID(ctx context.Context, id uuid.UUID) (*Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	reviewer, err := scanReviewer(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr("get reviewer", err)
	}
	return reviewer, nil
}

func (s *ReviewersStore) GetByUsername(ctx context.Context, username string) (*Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE username = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	reviewer, err := scanReviewer(s.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, translateErr("get reviewer by username", err)
	}
	return reviewer, nil
}

func (s *ReviewersStore) GetByEmail(ctx context.Context, email string) (*Reviewer, error) {
	query := `SELECT ` + reviewerColumns + ` FROM reviewers WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	reviewer, err := scanReviewer(s.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, translateErr("get reviewer by email", err)
	}
	return reviewer, nil
}

func (s *ReviewersStore) GetAll(ctx context.Context, skip, limit int) ([]Reviewer, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewerColumns + `
		FROM reviewers
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, translateErr("list reviewers", err)
	}
	defer rows.Close()

	var reviewers []Reviewer
	for rows.Next() {
		var r Reviewer
		err := rows.Scan(&r.ID, &r.Username, &r.Email, &r.FullName, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, translateErr("list reviewers", err)
		}
		reviewers = append(reviewers, r)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("list reviewers", err)
	}
	return reviewers, nil
}

// Update applies only the fields present in data and refreshes updated_at. An
// update with no fields present returns the current row unchanged.
func (s *ReviewersStore) Update(ctx context.Context, id uuid.UUID, data ReviewerUpdate) (*Reviewer, error) {
	set, err := data.changes()
	if err != nil {
		return nil, err
	}
	if set.empty() {
		return s.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE reviewers SET %s WHERE id = $%d RETURNING `+reviewerColumns,
		set.clause(), set.next(),
	)
	args := append(set.args, id)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var reviewer *Reviewer
	err = withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		reviewer, err = scanReviewer(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, translateErr("update reviewer", err)
	}
	return reviewer, nil
}

// Delete reports false when the id does not exist. It does not cascade:
// deleting a reviewer who still has reviews surfaces the foreign-key
// rejection as a ConstraintError.
func (s *ReviewersStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM reviewers WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var deleted bool
	err := withTx(s.db, ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, id)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, translateErr("delete reviewer", err)
	}
	return deleted, nil
}
