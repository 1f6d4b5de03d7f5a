package orders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// OrderUseCase agenda de pedidos: alta directa, consulta por rango de entrega,
// cambio de estado y exportación.
type OrderUseCase struct {
	orders   repository.OrderRepository
	clients  repository.ClientRepository
	exporter AgendaExporter
	log      *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, clients repository.ClientRepository, exporter AgendaExporter, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{orders: orders, clients: clients, exporter: exporter, log: log}
}

// Schedule agenda un pedido sin cotización, en estado PENDIENTE. El cliente debe existir.
func (uc *OrderUseCase) Schedule(ctx context.Context, in dto.ScheduleOrderRequest) (*entity.Order, error) {
	if in.DeliveryAt.IsZero() {
		return nil, domain.NewValidationError(domain.ReasonMissingDelivery)
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError(domain.ReasonNegativePrice)
	}
	client, err := uc.clients.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "obtener cliente", Err: err}
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.ClientID)
	}
	o := &entity.Order{
		ClientID:   client.ID,
		DeliveryAt: in.DeliveryAt,
		Price:      in.Price,
		Status:     entity.OrderStatusPending,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, &domain.OrderCreationError{Err: err}
	}
	uc.log.Info().Str("ped_id", o.ID).Str("cli_id", o.ClientID).Msg("pedido agendado")
	return o, nil
}

// ListOrders pedidos con entrega en [from, to). Un rango vacío usa el mes en curso.
func (uc *OrderUseCase) ListOrders(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	from, to = defaultRange(from, to, time.Now())
	if !to.After(from) {
		return nil, fmt.Errorf("%w: rango de fechas", domain.ErrInvalidInput)
	}
	list, err := uc.orders.ListByDeliveryRange(ctx, from, to)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar pedidos", Err: err}
	}
	return list, nil
}

// UpdateStatus cambia el estado de un pedido.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if err := uc.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "actualizar pedido", Err: err}
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ExportAgenda escribe en w la agenda del rango, con los datos del cliente.
func (uc *OrderUseCase) ExportAgenda(ctx context.Context, w io.Writer, from, to time.Time) error {
	list, err := uc.ListOrders(ctx, from, to)
	if err != nil {
		return err
	}
	cache := make(map[string]*entity.Client)
	rows := make([]AgendaRow, 0, len(list))
	for _, o := range list {
		c, ok := cache[o.ClientID]
		if !ok {
			c, err = uc.clients.GetByID(ctx, o.ClientID)
			if err != nil {
				return &domain.PersistenceError{Op: "obtener cliente", Err: err}
			}
			cache[o.ClientID] = c
		}
		rows = append(rows, AgendaRow{Order: o, Client: c})
	}
	if err := uc.exporter.ExportAgenda(ctx, w, rows); err != nil {
		return fmt.Errorf("agenda: exportación fallida: %w", err)
	}
	return nil
}

// NewOrderResponse mapea la entidad a su salida HTTP.
func NewOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		QuotationID: o.QuotationID,
		DeliveryAt:  o.DeliveryAt,
		Price:       o.Price,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
}

func defaultRange(from, to, now time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	return from, to
}
