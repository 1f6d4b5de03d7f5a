package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create inserta la cotización; ID y fecha los asigna la base.
func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	query := `
		INSERT INTO cotizacion (cot_total, cot_detalle, cli_id)
		VALUES ($1, $2, $3)
		RETURNING cot_id, cot_fecha`
	err := r.q.QueryRow(ctx, query, q.Total, []byte(q.Detail), q.ClientID).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	query := `
		SELECT cot_id, cot_fecha, cot_total, cot_detalle, cli_id
		FROM cotizacion WHERE cot_id = $1`
	q, err := scanQuotation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}
	return q, nil
}

// List historial, más recientes primero.
func (r *QuotationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Quotation, error) {
	query := `
		SELECT cot_id, cot_fecha, cot_total, cot_detalle, cli_id
		FROM cotizacion ORDER BY cot_fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotizacion: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var (
		q      entity.Quotation
		detail []byte
	)
	if err := row.Scan(&q.ID, &q.CreatedAt, &q.Total, &detail, &q.ClientID); err != nil {
		return nil, err
	}
	q.Detail = detail
	return &q, nil
}
