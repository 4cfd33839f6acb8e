package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateErr_Nil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, translateErr("create reviewer", nil))
}

func TestTranslateErr_NoRows(t *testing.T) {
	t.Parallel()

	err := translateErr("get reviewer", pgx.ErrNoRows)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslateErr_ConstraintViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		code       string
		constraint string
		kind       ConstraintKind
	}{
		{"unique username", "23505", "reviewers_username_key", KindUnique},
		{"unique reviewer object pair", "23505", "uq_reviewer_object", KindUnique},
		{"star rating out of range", "23514", "check_star_rating_range", KindCheck},
		{"review without content", "23514", "check_review_content_exists", KindCheck},
		{"dangling reviewer reference", "23503", "reviews_reviewer_id_fkey", KindForeignKey},
		{"missing username", "23502", "", KindNotNull},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pgErr := &pgconn.PgError{
				Code:           tt.code,
				ConstraintName: tt.constraint,
				TableName:      "reviews",
			}

			err := translateErr("create review", fmt.Errorf("exec: %w", pgErr))

			var cerr *ConstraintError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.kind, cerr.Kind)
			assert.Equal(t, tt.constraint, cerr.Constraint)
			assert.Equal(t, "reviews", cerr.Table)
			assert.Equal(t, "create review", cerr.Op)

			// The raw driver error stays reachable for callers that need it.
			var unwrapped *pgconn.PgError
			assert.ErrorAs(t, err, &unwrapped)
		})
	}
}

func TestTranslateErr_UnknownPgError(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	err := translateErr("list reviews", pgErr)

	var cerr *ConstraintError
	assert.False(t, errors.As(err, &cerr))

	var unwrapped *pgconn.PgError
	assert.ErrorAs(t, err, &unwrapped)
	assert.Contains(t, err.Error(), "list reviews")
}

func TestTranslateErr_Unavailable(t *testing.T) {
	t.Parallel()

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()

		err := translateErr("get reviewer", context.DeadlineExceeded)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("network error", func(t *testing.T) {
		t.Parallel()

		err := translateErr("get reviewer", &net.DNSError{Err: "no such host", Name: "db"})
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestTranslateErr_PassThrough(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := translateErr("delete review", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestConstraintError_Message(t *testing.T) {
	t.Parallel()

	cerr := &ConstraintError{
		Kind:       KindUnique,
		Constraint: "reviewers_email_key",
		Table:      "reviewers",
		Op:         "create reviewer",
	}

	assert.Equal(t, `create reviewer: unique constraint "reviewers_email_key" on reviewers`, cerr.Error())
}
