package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/database"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// OperatorRepository provides data access for the operators table.
type OperatorRepository interface {
	List(ctx context.Context) ([]models.Operator, error)
	Get(ctx context.Context, id string) (models.Operator, error)
	Insert(ctx context.Context, input models.OperatorInput) (models.Operator, error)
	Update(ctx context.Context, id string, patch models.OperatorPatch) (models.Operator, error)
	Delete(ctx context.Context, id string) error
}

type operatorRepository struct {
	db database.Querier
}

func NewOperatorRepository(db database.Querier) OperatorRepository {
	return &operatorRepository{db: db}
}

var _ OperatorRepository = (*operatorRepository)(nil)

const operatorColumns = `id, name, employee_id, shift, skills, current_assignment`

func (r *operatorRepository) List(ctx context.Context) ([]models.Operator, error) {
	rows, err := r.db.Query(ctx, `SELECT `+operatorColumns+` FROM operators ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", apperrors.FromDB(err))
	}
	defer rows.Close()

	operators := make([]models.Operator, 0)
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operators: %w", apperrors.FromDB(err))
	}
	return operators, nil
}

func (r *operatorRepository) Get(ctx context.Context, id string) (models.Operator, error) {
	key, err := parseID(id)
	if err != nil {
		return models.Operator{}, err
	}
	return scanOperator(r.db.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, key))
}

func (r *operatorRepository) Insert(ctx context.Context, input models.OperatorInput) (models.Operator, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO operators (name, employee_id, shift, skills, current_assignment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+operatorColumns,
		input.Name, input.EmployeeID, input.Shift, models.NormalizeSkills(input.Skills), input.CurrentAssignment,
	)
	op, err := scanOperator(row)
	if err != nil {
		return models.Operator{}, fmt.Errorf("failed to create operator: %w", err)
	}
	return op, nil
}

func (r *operatorRepository) Update(ctx context.Context, id string, patch models.OperatorPatch) (models.Operator, error) {
	key, err := parseID(id)
	if err != nil {
		return models.Operator{}, err
	}

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.EmployeeID != nil {
		b.set("employee_id", *patch.EmployeeID)
	}
	if patch.Shift != nil {
		b.set("shift", *patch.Shift)
	}
	if patch.Skills != nil {
		b.set("skills", models.NormalizeSkills(*patch.Skills))
	}
	if patch.CurrentAssignment.Set {
		b.set("current_assignment", patch.CurrentAssignment.Value)
	}
	if b.empty() {
		return r.Get(ctx, id)
	}

	query, args := b.build("operators", key, true)
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return models.Operator{}, fmt.Errorf("failed to update operator: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, id)
}

func (r *operatorRepository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM operators WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete operator: %w", apperrors.FromDB(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanOperator(row pgx.Row) (models.Operator, error) {
	var (
		op  models.Operator
		key int64
	)
	if err := row.Scan(&key, &op.Name, &op.EmployeeID, &op.Shift, &op.Skills, &op.CurrentAssignment); err != nil {
		return models.Operator{}, fmt.Errorf("failed to scan operator: %w", apperrors.FromDB(err))
	}
	op.ID = formatID(key)
	if op.Skills == nil {
		op.Skills = []string{}
	}
	return op, nil
}
