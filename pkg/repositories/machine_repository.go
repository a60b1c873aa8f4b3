package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/database"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// MachineRepository provides data access for the machines table.
// Reads embed the referenced work order's order number and product name.
type MachineRepository interface {
	List(ctx context.Context) ([]models.Machine, error)
	Get(ctx context.Context, id string) (models.Machine, error)
	Insert(ctx context.Context, input models.MachineInput) (models.Machine, error)
	Update(ctx context.Context, id string, patch models.MachinePatch) (models.Machine, error)
	Delete(ctx context.Context, id string) error
}

type machineRepository struct {
	db database.Querier
}

func NewMachineRepository(db database.Querier) MachineRepository {
	return &machineRepository{db: db}
}

var _ MachineRepository = (*machineRepository)(nil)

const machineSelect = `
	SELECT m.id, m.name, m.type, m.status, m.current_work_order_id,
	       wo.order_number, wo.product_name,
	       m.efficiency, m.last_maintenance, m.location, m.created_at
	FROM machines m
	LEFT JOIN work_orders wo ON wo.id = m.current_work_order_id`

func (r *machineRepository) List(ctx context.Context) ([]models.Machine, error) {
	rows, err := r.db.Query(ctx, machineSelect+` ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", apperrors.FromDB(err))
	}
	defer rows.Close()

	machines := make([]models.Machine, 0)
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating machines: %w", apperrors.FromDB(err))
	}
	return machines, nil
}

func (r *machineRepository) Get(ctx context.Context, id string) (models.Machine, error) {
	key, err := parseID(id)
	if err != nil {
		return models.Machine{}, err
	}
	return scanMachine(r.db.QueryRow(ctx, machineSelect+` WHERE m.id = $1`, key))
}

func (r *machineRepository) Insert(ctx context.Context, input models.MachineInput) (models.Machine, error) {
	status := input.Status
	if status == "" {
		status = models.MachineStatusIdle
	}
	workOrderID, err := optionalKey(input.CurrentWorkOrderID)
	if err != nil {
		return models.Machine{}, err
	}

	var (
		key int64
		row pgx.Row
	)
	if input.LastMaintenance.IsZero() {
		row = r.db.QueryRow(ctx, `
			INSERT INTO machines (name, type, status, current_work_order_id, efficiency, location)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			input.Name, input.Type, status, workOrderID, input.Efficiency, input.Location)
	} else {
		row = r.db.QueryRow(ctx, `
			INSERT INTO machines (name, type, status, current_work_order_id, efficiency, last_maintenance, location)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			input.Name, input.Type, status, workOrderID, input.Efficiency, input.LastMaintenance, input.Location)
	}
	if err := row.Scan(&key); err != nil {
		return models.Machine{}, fmt.Errorf("failed to create machine: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, formatID(key))
}

func (r *machineRepository) Update(ctx context.Context, id string, patch models.MachinePatch) (models.Machine, error) {
	key, err := parseID(id)
	if err != nil {
		return models.Machine{}, err
	}

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Type != nil {
		b.set("type", *patch.Type)
	}
	if patch.Status != nil {
		b.set("status", *patch.Status)
	}
	if patch.CurrentWorkOrderID.Set {
		// An empty string detaches the work order like an explicit null.
		workOrderID, err := optionalKey(patch.CurrentWorkOrderID.Value)
		if err != nil {
			return models.Machine{}, err
		}
		b.set("current_work_order_id", workOrderID)
	}
	if patch.Efficiency != nil {
		b.set("efficiency", *patch.Efficiency)
	}
	if patch.LastMaintenance != nil {
		b.set("last_maintenance", *patch.LastMaintenance)
	}
	if patch.Location != nil {
		b.set("location", *patch.Location)
	}
	if b.empty() {
		return r.Get(ctx, id)
	}

	query, args := b.build("machines", key, true)
	var updatedID int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		return models.Machine{}, fmt.Errorf("failed to update machine: %w", apperrors.FromDB(err))
	}
	return r.Get(ctx, id)
}

func (r *machineRepository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM machines WHERE id = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete machine: %w", apperrors.FromDB(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// optionalKey parses a nullable work order reference; nil and "" map to NULL.
func optionalKey(id *string) (*int64, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	key, err := parseID(*id)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func scanMachine(row pgx.Row) (models.Machine, error) {
	var (
		m           models.Machine
		key         int64
		workOrderID *int64
		orderNumber *string
		productName *string
	)
	err := row.Scan(
		&key, &m.Name, &m.Type, &m.Status, &workOrderID,
		&orderNumber, &productName,
		&m.Efficiency, &m.LastMaintenance, &m.Location, &m.CreatedAt,
	)
	if err != nil {
		return models.Machine{}, fmt.Errorf("failed to scan machine: %w", apperrors.FromDB(err))
	}
	m.ID = formatID(key)
	m.CurrentWorkOrderID = formatOptionalID(workOrderID)
	m.CurrentWorkOrder = derefString(orderNumber)
	m.CurrentWorkOrderProduct = derefString(productName)
	return m, nil
}
