package apperrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Postgres SQLSTATE codes mapped onto the application taxonomy.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// RemoteError is a failure reported by the table store.
type RemoteError struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Detail)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// Is lets errors.Is match duplicate keys as ErrConflict, and references to
// missing rows or failed CHECK constraints as ErrValidation.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.Code == uniqueViolation
	case ErrValidation:
		return e.Code == foreignKeyViolation || e.Code == checkViolation
	}
	return false
}

// FromDB translates driver errors into the application taxonomy.
// pgx.ErrNoRows becomes ErrNotFound and *pgconn.PgError becomes *RemoteError.
// Anything else is returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &RemoteError{
			Message: pgErr.Message,
			Detail:  pgErr.Detail,
			Hint:    pgErr.Hint,
			Code:    pgErr.Code,
		}
	}
	return err
}

// Validation wraps a message as an ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
