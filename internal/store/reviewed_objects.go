package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewedObject is anything that can receive reviews, identified externally
// by (ObjectType, ObjectID). The same external id may appear under different
// types but only once per type.
type ReviewedObject struct {
	ID          uuid.UUID      `json:"id"`
	ObjectType  string         `json:"object_type"`
	ObjectID    string         `json:"object_id"`
	Name        string         `json:"object_name"`
	Description *string        `json:"object_description"`
	Metadata    map[string]any `json:"object_metadata"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ReviewedObjectCreate struct {
	ObjectType  string         `json:"object_type"`
	ObjectID    string         `json:"object_id"`
	Name        string         `json:"object_name"`
	Description *string        `json:"object_description"`
	Metadata    map[string]any `json:"object_metadata"`
}

// ReviewedObjectUpdate is a partial update keyed by column name. An absent
// key keeps the stored value; a key set to nil clears the column, which is
// how a caller drops the description or the whole metadata document.
type ReviewedObjectUpdate map[string]any

var reviewedObjectUpdateColumns = []string{
	"object_type", "object_id", "object_name", "object_description", "object_metadata",
}

func (d ReviewedObjectUpdate) changes() (*updateSet, error) {
	if err := checkColumns(d, reviewedObjectUpdateColumns); err != nil {
		return nil, err
	}
	set := &updateSet{}
	for _, col := range reviewedObjectUpdateColumns {
		if val, ok := d[col]; ok {
			set.add(col, val)
		}
	}
	return set, nil
}

// Validate reports whether the update names only updatable columns.
func (d ReviewedObjectUpdate) Validate() error {
	_, err := d.changes()
	return err
}

type ReviewedObjectsStore struct {
	db *pgxpool.Pool
}

const reviewedObjectColumns = `id, object_type, object_id, object_name, object_description, object_metadata, created_at, updated_at`

func scanReviewedObject(row pgx.Row) (*ReviewedObject, error) {
	var o ReviewedObject
	err := row.Scan(&o.ID, &o.ObjectType, &o.ObjectID, &o.Name,
		&o.Description, &o.Metadata, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *ReviewedObjectsStore) Create(ctx context.Context, data ReviewedObjectCreate) (*ReviewedObject, error) {
	query := `
		INSERT INTO reviewed_objects (id, object_type, object_id, object_name, object_description, object_metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewedObjectColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var object *ReviewedObject
	err := withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		object, err = scanReviewedObject(tx.QueryRow(ctx, query,
			uuid.New(), data.ObjectType, data.ObjectID, data.Name, data.Description, data.Metadata))
		return err
	})
	if err != nil {
		return nil, translateErr("create reviewed object", err)
	}
	return object, nil
}

func (s *ReviewedObjectsStore) GetByID(ctx context.Context, id uuid.UUID) (*ReviewedObject, error) {
	query := `SELECT ` + reviewedObjectColumns + ` FROM reviewed_objects WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	object, err := scanReviewedObject(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr("get reviewed object", err)
	}
	return object, nil
}

// GetByTypeAndID looks an object up by its natural key, the caller-supplied
// external identifier scoped by type.
func (s *ReviewedObjectsStore) GetByTypeAndID(ctx context.Context, objectType, externalID string) (*ReviewedObject, error) {
	query := `
		SELECT ` + reviewedObjectColumns + `
		FROM reviewed_objects
		WHERE object_type = $1 AND object_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	object, err := scanReviewedObject(s.db.QueryRow(ctx, query, objectType, externalID))
	if err != nil {
		return nil, translateErr("get reviewed object by type and id", err)
	}
	return object, nil
}

func (s *ReviewedObjectsStore) GetByType(ctx context.Context, objectType string, skip, limit int) ([]ReviewedObject, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewedObjectColumns + `
		FROM reviewed_objects
		WHERE object_type = $1
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, objectType, skip, limit)
	if err != nil {
		return nil, translateErr("list reviewed objects by type", err)
	}
	defer rows.Close()

	return collectReviewedObjects(rows)
}

func (s *ReviewedObjectsStore) GetAll(ctx context.Context, skip, limit int) ([]ReviewedObject, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewedObjectColumns + `
		FROM reviewed_objects
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, translateErr("list reviewed objects", err)
	}
	defer rows.Close()

	return collectReviewedObjects(rows)
}

func collectReviewedObjects(rows pgx.Rows) ([]ReviewedObject, error) {
	var objects []ReviewedObject
	for rows.Next() {
		var o ReviewedObject
		err := rows.Scan(&o.ID, &o.ObjectType, &o.ObjectID, &o.Name,
			&o.Description, &o.Metadata, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, translateErr("list reviewed objects", err)
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("list reviewed objects", err)
	}
	return objects, nil
}

// Update applies only the fields present in data and refreshes updated_at.
func (s *ReviewedObjectsStore) Update(ctx context.Context, id uuid.UUID, data ReviewedObjectUpdate) (*ReviewedObject, error) {
	set, err := data.changes()
	if err != nil {
		return nil, err
	}
	if set.empty() {
		return s.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE reviewed_objects SET %s WHERE id = $%d RETURNING `+reviewedObjectColumns,
		set.clause(), set.next(),
	)
	args := append(set.args, id)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var object *ReviewedObject
	err = withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		object, err = scanReviewedObject(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, translateErr("update reviewed object", err)
	}
	return object, nil
}

// Delete reports false when the id does not exist. Objects that still have
// reviews are not deleted; the foreign-key rejection surfaces as a
// ConstraintError.
func (s *ReviewedObjectsStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM reviewed_objects WHERE id = $1`

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
		return false, translateErr("delete reviewed object", err)
	}
	return deleted, nil
}
