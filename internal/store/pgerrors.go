package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable marks failures where the database could not be reached or the
// round-trip timed out. The store never retries; that call is left to the
// calling layer.
var ErrUnavailable = errors.New("storage unavailable")

// SQLSTATE codes for the constraint classes the schema can raise.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

type ConstraintKind int

const (
	KindUnique ConstraintKind = iota
	KindForeignKey
	KindNotNull
	KindCheck
)

func (k ConstraintKind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindForeignKey:
		return "foreign key"
	case KindNotNull:
		return "not null"
	case KindCheck:
		return "check"
	}
	return "unknown"
}

// ConstraintError reports a write the database rejected because it would break
// a schema constraint. The triggering transaction is already rolled back by the
// time callers see it; retrying the identical input will fail again.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Table      string
	Column     string
	Op         string

	err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s constraint %q on %s", e.Op, e.Kind, e.Constraint, e.Table)
}

func (e *ConstraintError) Unwrap() error { return e.err }

// translateErr maps a driver failure onto the store's error taxonomy. op names
// the repository operation, for error messages and ConstraintError.Op.
func translateErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, ok := constraintKind(pgErr.Code)
		if !ok {
			return fmt.Errorf("%s: %w", op, err)
		}
		return &ConstraintError{
			Kind:       kind,
			Constraint: pgErr.ConstraintName,
			Table:      pgErr.TableName,
			Column:     pgErr.ColumnName,
			Op:         op,
			err:        err,
		}
	}

	if isUnreachable(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func constraintKind(code string) (ConstraintKind, bool) {
	switch code {
	case codeUniqueViolation:
		return KindUnique, true
	case codeForeignKeyViolation:
		return KindForeignKey, true
	case codeNotNullViolation:
		return KindNotNull, true
	case codeCheckViolation:
		return KindCheck, true
	}
	return 0, false
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
