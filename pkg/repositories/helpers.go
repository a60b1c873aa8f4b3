package repositories

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
)

// parseID converts an in-memory string identifier into the numeric key used
// by the tables.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperrors.Validation("invalid id %q", id)
	}
	return n, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatOptionalID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := formatID(*id)
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// updateBuilder accumulates "col = $n" assignments for partial updates.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build returns an UPDATE statement keyed on id that returns the row id.
func (b *updateBuilder) build(table string, id int64, touchUpdatedAt bool) (string, []any) {
	sets := b.sets
	if touchUpdatedAt {
		sets = append(sets, "updated_at = now()")
	}
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING id",
		table, strings.Join(sets, ", "), len(args))
	return query, args
}
