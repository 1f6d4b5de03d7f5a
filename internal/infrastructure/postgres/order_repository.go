package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `ped_id, cli_id, cot_id, ped_fecha_entrega, ped_precio, ped_estado, created_at`

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido; ID y created_at los asigna la base.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pedido (cli_id, cot_id, ped_fecha_entrega, ped_precio, ped_estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ped_id, created_at`
	err := r.q.QueryRow(ctx, query, o.ClientID, o.QuotationID, o.DeliveryAt, o.Price, o.Status).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyConverted
		}
		return fmt.Errorf("insert pedido: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE ped_id = $1`, id)
}

// GetByQuotationID pedido generado desde una cotización, si existe.
func (r *OrderRepo) GetByQuotationID(ctx context.Context, quotationID string) (*entity.Order, error) {
	return r.getOne(ctx, `WHERE cot_id = $1`, quotationID)
}

func (r *OrderRepo) getOne(ctx context.Context, where string, arg any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM pedido `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return o, nil
}

// ListByDeliveryRange pedidos con entrega en [from, to).
func (r *OrderRepo) ListByDeliveryRange(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM pedido
		WHERE ped_fecha_entrega >= $1 AND ped_fecha_entrega < $2
		ORDER BY ped_fecha_entrega, created_at`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado. domain.ErrNotFound si no existe.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE pedido SET ped_estado = $2 WHERE ped_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update pedido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.ClientID, &o.QuotationID, &o.DeliveryAt, &o.Price, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
