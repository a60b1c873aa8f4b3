package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/database"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// WorkOrderRepository provides data access for the work_orders table.
type WorkOrderRepository interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
	Get(ctx context.Context, id string) (models.WorkOrder, error)
	Insert(ctx context.Context, input models.WorkOrderInput) (models.WorkOrder, error)
	Update(ctx context.Context, id string, patch models.WorkOrderPatch) (models.WorkOrder, error)
	Delete(ctx context.Context, id string) error
}

type workOrderRepository struct {
	db database.Querier
}

func NewWorkOrderRepository(db database.Querier) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

var _ WorkOrderRepository = (*workOrderRepository)(nil)

const workOrderColumns = `id, order_number, product_name, quantity_planned, quantity_completed,
	status, priority, start_date, due_date, assigned_line, created_at, updated_at`

func (r *workOrderRepository) List(ctx context.Context) ([]models.WorkOrder, error) {
	rows, err := r.db.Query(ctx, `SELECT `+workOrderColumns+` FROM work_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", apperrors.FromDB(err))
	}
	defer rows.Close()

	orders := make([]models.WorkOrder, 0)
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work orders: %w", apperrors.FromDB(err))
	}
	return orders, nil
}

func (r *workOrderRepository) Get(ctx context.Context, id string) (models.WorkOrder, error) {
	key, err := parseID(id)
	if err != nil {
		return models.WorkOrder{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, key)
	return scanWorkOrder(row)
}

func (r *workOrderRepository) Insert(ctx context.Context, input models.WorkOrderInput) (models.WorkOrder, error) {
	status := input.Status
	if status == "" {
		status = models.WorkOrderStatusPending
	}
	priority := input.Priority
	if priority == "" {
		priority = models.WorkOrderPriorityMedium
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO work_orders (
			order_number, product_name, quantity_planned, quantity_completed,
			status, priority, start_date, due_date, assigned_line
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+workOrderColumns,
		input.OrderNumber, input.ProductName, input.QuantityPlanned, input.QuantityCompleted,
		status, priority, input.StartDate, input.DueDate, input.AssignedLine,
	)
	wo, err := scanWorkOrder(row)
	if err != nil {
		return models.WorkOrder{}, fmt.Errorf("failed to create work order: %w", err)
	}
	return wo, nil
}

func (r *workOrderRepository) Update(ctx context.Context, id string, patch models.WorkOrderPatch) (models.WorkOrder, error) {
	key, err := parseID(id)
	if err != nil {
		return models.WorkOrder{}, err
	}

	var b updateBuilder
	if patch.OrderNumber != nil {
		b.set("order_number", *patch.OrderNumber)
	}
	if patch.ProductName != nil {
		b.set("product_name", *patch.ProductName)
	}
	if patch.QuantityPlanned != nil {
		b.set("quantity_planned", *patch.QuantityPlanned)
	}
	if patch.QuantityCompleted != nil {
		b.set("quantity_completed", *patch.QuantityCompleted)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if patch.Priority != nil {
		b.set("priority", *patch.Priority)
	}
	if patch.StartDate != nil {
		b.set("start_date", *patch.StartDate)
	}
	if patch.DueDate != nil {
		b.set("due_date", *patch.DueDate)
	}
	if patch.AssignedLine != nil {
		b.set("assigned_line", *patch.AssignedLine)
	}
	if b.empty() {
		return r.Get(ctx, id)
	}

	query, args := b.build("work_orders", key, true)
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return models.WorkOrder{}, fmt.Errorf("failed to update work order: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, id)
}

func (r *workOrderRepository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete work order: %w", apperrors.FromDB(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanWorkOrder(row pgx.Row) (models.WorkOrder, error) {
	var (
		wo  models.WorkOrder
		key int64
	)
	err := row.Scan(
		&key, &wo.OrderNumber, &wo.ProductName, &wo.QuantityPlanned, &wo.QuantityCompleted,
		&wo.Status, &wo.Priority, &wo.StartDate, &wo.DueDate, &wo.AssignedLine,
		&wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return models.WorkOrder{}, fmt.Errorf("failed to scan work order: %w", apperrors.FromDB(err))
	}
	wo.ID = formatID(key)
	return wo, nil
}
