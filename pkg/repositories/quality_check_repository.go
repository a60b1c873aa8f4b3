package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/database"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// QualityCheckRepository provides data access for the quality_control table.
// Reads embed the inspecting operator as it is at read time.
type QualityCheckRepository interface {
	List(ctx context.Context) ([]models.QualityCheck, error)
	Get(ctx context.Context, id string) (models.QualityCheck, error)
	Insert(ctx context.Context, input models.QualityCheckInput) (models.QualityCheck, error)
	Update(ctx context.Context, id string, patch models.QualityCheckPatch) (models.QualityCheck, error)
	Delete(ctx context.Context, id string) error
}

type qualityCheckRepository struct {
	db database.Querier
}

func NewQualityCheckRepository(db database.Querier) QualityCheckRepository {
	return &qualityCheckRepository{db: db}
}

var _ QualityCheckRepository = (*qualityCheckRepository)(nil)

const qualityCheckSelect = `
	SELECT qc.id, qc.work_order_id, qc.check_type, qc.result, qc.inspector_id,
	       qc.notes, qc.checked_at,
	       op.id, op.name, op.employee_id, op.shift, op.skills, op.current_assignment
	FROM quality_control qc
	LEFT JOIN operators op ON op.id = qc.inspector_id`

func (r *qualityCheckRepository) List(ctx context.Context) ([]models.QualityCheck, error) {
	rows, err := r.db.Query(ctx, qualityCheckSelect+` ORDER BY qc.checked_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality checks: %w", apperrors.FromDB(err))
	}
	defer rows.Close()

	checks := make([]models.QualityCheck, 0)
	for rows.Next() {
		qc, err := scanQualityCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quality checks: %w", apperrors.FromDB(err))
	}
	return checks, nil
}

func (r *qualityCheckRepository) Get(ctx context.Context, id string) (models.QualityCheck, error) {
	key, err := parseID(id)
	if err != nil {
		return models.QualityCheck{}, err
	}
	return scanQualityCheck(r.db.QueryRow(ctx, qualityCheckSelect+` WHERE qc.id = $1`, key))
}

func (r *qualityCheckRepository) Insert(ctx context.Context, input models.QualityCheckInput) (models.QualityCheck, error) {
	workOrderID, err := parseID(input.WorkOrderID)
	if err != nil {
		return models.QualityCheck{}, err
	}
	inspectorID, err := parseID(input.InspectorID)
	if err != nil {
		return models.QualityCheck{}, err
	}
	result := input.Result
	if result == "" {
		result = models.QualityResultPending
	}

	var key int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO quality_control (work_order_id, check_type, result, inspector_id, notes, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		workOrderID, input.CheckType, result, inspectorID, nullIfEmpty(input.Notes), input.CheckedAt,
	).Scan(&key)
	if err != nil {
		return models.QualityCheck{}, fmt.Errorf("failed to create quality check: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, formatID(key))
}

func (r *qualityCheckRepository) Update(ctx context.Context, id string, patch models.QualityCheckPatch) (models.QualityCheck, error) {
	key, err := parseID(id)
	if err != nil {
		return models.QualityCheck{}, err
	}

	var b updateBuilder
	if patch.WorkOrderID != nil {
		workOrderID, err := parseID(*patch.WorkOrderID)
		if err != nil {
			return models.QualityCheck{}, err
		}
		b.set("work_order_id", workOrderID)
	}
	if patch.CheckType != nil {
		b.set("check_type", *patch.CheckType)
	}
	if patch.Result != nil {
		b.set("result", *patch.Result)
	}
	if patch.InspectorID != nil {
		inspectorID, err := parseID(*patch.InspectorID)
		if err != nil {
			return models.QualityCheck{}, err
		}
		b.set("inspector_id", inspectorID)
	}
	if patch.Notes != nil {
		b.set("notes", nullIfEmpty(*patch.Notes))
	}
	if patch.CheckedAt != nil {
		b.set("checked_at", *patch.CheckedAt)
	}
	if b.empty() {
		return r.Get(ctx, id)
	}

	query, args := b.build("quality_control", key, false)
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return models.QualityCheck{}, fmt.Errorf("failed to update quality check: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, id)
}

func (r *qualityCheckRepository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM quality_control WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete quality check: %w", apperrors.FromDB(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanQualityCheck(row pgx.Row) (models.QualityCheck, error) {
	var (
		qc           models.QualityCheck
		key          int64
		workOrderID  int64
		inspectorID  *int64
		notes        *string
		opID         *int64
		opName       *string
		opEmployeeID *string
		opShift      *string
		opSkills     []string
		opAssignment *string
	)
	err := row.Scan(
		&key, &workOrderID, &qc.CheckType, &qc.Result, &inspectorID,
		&notes, &qc.CheckedAt,
		&opID, &opName, &opEmployeeID, &opShift, &opSkills, &opAssignment,
	)
	if err != nil {
		return models.QualityCheck{}, fmt.Errorf("failed to scan quality check: %w", apperrors.FromDB(err))
	}

	qc.ID = formatID(key)
	qc.WorkOrderID = formatID(workOrderID)
	qc.InspectorID = derefString(formatOptionalID(inspectorID))
	qc.Notes = derefString(notes)
	if opID != nil {
		if opSkills == nil {
			opSkills = []string{}
		}
		qc.Inspector = &models.Operator{
			ID:                formatID(*opID),
			Name:              derefString(opName),
			EmployeeID:        derefString(opEmployeeID),
			Shift:             models.Shift(derefString(opShift)),
			Skills:            opSkills,
			CurrentAssignment: opAssignment,
		}
	}
	return qc, nil
}
