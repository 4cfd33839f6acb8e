package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Thumbs values accepted by the reviews.thumbs_rating check constraint.
const (
	ThumbsUp   = "up"
	ThumbsDown = "down"
)

// Review is one reviewer's feedback on one reviewed object. All three content
// fields are optional individually, but the schema requires at least one to be
// present, and a reviewer may review a given object at most once.
type Review struct {
	ID               uuid.UUID `json:"id"`
	ReviewerID       uuid.UUID `json:"reviewer_id"`
	ReviewedObjectID uuid.UUID `json:"reviewed_object_id"`
	TextReview       *string   `json:"text_review"`
	StarRating       *int16    `json:"star_rating"`
	ThumbsRating     *string   `json:"thumbs_rating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ReviewCreate struct {
	ReviewerID       uuid.UUID `json:"reviewer_id"`
	ReviewedObjectID uuid.UUID `json:"reviewed_object_id"`
	TextReview       *string   `json:"text_review"`
	StarRating       *int16    `json:"star_rating"`
	ThumbsRating     *string   `json:"thumbs_rating"`
}

// ReviewUpdate is a partial update keyed by column name, over the content
// fields only; the reviewer/object pair is immutable once created. An absent
// key keeps the stored value; a key set to nil clears it, so a reviewer can
// retract a star rating while leaving their text in place.
type ReviewUpdate map[string]any

var reviewUpdateColumns = []string{"text_review", "star_rating", "thumbs_rating"}

func (d ReviewUpdate) changes() (*updateSet, error) {
	if err := checkColumns(d, reviewUpdateColumns); err != nil {
		return nil, err
	}
	set := &updateSet{}
	for _, col := range reviewUpdateColumns {
		val, ok := d[col]
		if !ok {
			continue
		}
		// JSON numbers decode as float64; the column is a smallint.
		if f, isFloat := val.(float64); isFloat && col == "star_rating" {
			val = int16(f)
		}
		set.add(col, val)
	}
	return set, nil
}

// Validate reports whether the update names only updatable content columns.
// Identity fields fail here rather than at the database.
func (d ReviewUpdate) Validate() error {
	_, err := d.changes()
	return err
}

// ReviewStats is the per-object aggregate, computed from committed review rows
// at call time and never persisted. AverageRating is nil when no review on the
// object carries a star rating.
type ReviewStats struct {
	ObjectID        uuid.UUID `json:"object_id"`
	ObjectType      string    `json:"object_type"`
	ObjectName      string    `json:"object_name"`
	TotalReviews    int       `json:"total_reviews"`
	AverageRating   *float64  `json:"average_rating"`
	ThumbsUpCount   int       `json:"thumbs_up_count"`
	ThumbsDownCount int       `json:"thumbs_down_count"`
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

const reviewColumns = `id, reviewer_id, reviewed_object_id, text_review, star_rating, thumbs_rating, created_at, updated_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.ReviewerID, &r.ReviewedObjectID,
		&r.TextReview, &r.StarRating, &r.ThumbsRating, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persists a new review. Rating range, thumbs values, the
// has-some-content rule and the one-review-per-pair rule are all enforced by
// the schema; violations come back as ConstraintError with the transaction
// rolled back.
func (s *ReviewsStore) Create(ctx context.Context, data ReviewCreate) (*Review, error) {
	query := `
		INSERT INTO reviews (id, reviewer_id, reviewed_object_id, text_review, star_rating, thumbs_rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review *Review
	err := withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		review, err = scanReview(tx.QueryRow(ctx, query,
			uuid.New(), data.ReviewerID, data.ReviewedObjectID,
			data.TextReview, data.StarRating, data.ThumbsRating))
		return err
	})
	if err != nil {
		return nil, translateErr("create review", err)
	}
	return review, nil
}

func (s *ReviewsStore) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	review, err := scanReview(s.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateErr("get review", err)
	}
	return review, nil
}

// GetByReviewerAndObject fetches the single review a reviewer left on an
// object, which the unique pair constraint guarantees is at most one.
func (s *ReviewsStore) GetByReviewerAndObject(ctx context.Context, reviewerID, objectID uuid.UUID) (*Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewer_id = $1 AND reviewed_object_id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	review, err := scanReview(s.db.QueryRow(ctx, query, reviewerID, objectID))
	if err != nil {
		return nil, translateErr("get review by reviewer and object", err)
	}
	return review, nil
}

func (s *ReviewsStore) GetByReviewer(ctx context.Context, reviewerID uuid.UUID, skip, limit int) ([]Review, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, reviewerID, skip, limit)
	if err != nil {
		return nil, translateErr("list reviews by reviewer", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// GetByObject pages through an object's reviews newest first; the fixed
// ordering makes sequential pages a non-overlapping partition of the set.
func (s *ReviewsStore) GetByObject(ctx context.Context, objectID uuid.UUID, skip, limit int) ([]Review, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE reviewed_object_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, objectID, skip, limit)
	if err != nil {
		return nil, translateErr("list reviews by object", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (s *ReviewsStore) GetAll(ctx context.Context, skip, limit int) ([]Review, error) {
	skip, limit = normalizePage(skip, limit)
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC, id
		OFFSET $1 LIMIT $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, translateErr("list reviews", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]Review, error) {
	var reviews []Review
	for rows.Next() {
		var r Review
		err := rows.Scan(&r.ID, &r.ReviewerID, &r.ReviewedObjectID,
			&r.TextReview, &r.StarRating, &r.ThumbsRating, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, translateErr("list reviews", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr("list reviews", err)
	}
	return reviews, nil
}

// Update applies only the content fields present in data and refreshes
// updated_at.
func (s *ReviewsStore) Update(ctx context.Context, id uuid.UUID, data ReviewUpdate) (*Review, error) {
	set, err := data.changes()
	if err != nil {
		return nil, err
	}
	if set.empty() {
		return s.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE reviews SET %s WHERE id = $%d RETURNING `+reviewColumns,
		set.clause(), set.next(),
	)
	args := append(set.args, id)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var review *Review
	err = withTx(s.db, ctx, func(tx pgx.Tx) error {
		var err error
		review, err = scanReview(tx.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, translateErr("update review", err)
	}
	return review, nil
}

func (s *ReviewsStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM reviews WHERE id = $1`

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
		return false, translateErr("delete review", err)
	}
	return deleted, nil
}

// Stats aggregates an object's reviews at call time. The AVG only sees
// non-null star ratings, and the float8 cast plus pointer scan keeps "no
// ratings yet" distinct from an average of zero. ErrNotFound when the object
// itself does not exist.
func (s *ReviewsStore) Stats(ctx context.Context, objectID uuid.UUID) (*ReviewStats, error) {
	query := `
		SELECT o.id, o.object_type, o.object_name,
		       COUNT(r.id) AS total_reviews,
		       AVG(r.star_rating)::float8 AS average_rating,
		       COUNT(r.id) FILTER (WHERE r.thumbs_rating = 'up') AS thumbs_up_count,
		       COUNT(r.id) FILTER (WHERE r.thumbs_rating = 'down') AS thumbs_down_count
		FROM reviewed_objects o
		LEFT JOIN reviews r ON r.reviewed_object_id = o.id
		WHERE o.id = $1
		GROUP BY o.id, o.object_type, o.object_name`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var stats ReviewStats
	err := s.db.QueryRow(ctx, query, objectID).Scan(
		&stats.ObjectID, &stats.ObjectType, &stats.ObjectName,
		&stats.TotalReviews, &stats.AverageRating,
		&stats.ThumbsUpCount, &stats.ThumbsDownCount,
	)
	if err != nil {
		return nil, translateErr("object stats", err)
	}
	return &stats, nil
}
