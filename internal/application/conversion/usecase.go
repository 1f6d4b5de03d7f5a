package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/application/quotation"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// Input datos del cliente y del pedido capturados en el modal de conversión.
type Input struct {
	FirstName  string
	LastName   string
	Email      string
	DeliveryAt time.Time
	Price      decimal.Decimal
}

// ConversionUseCase convierte una cotización recién guardada en un pedido CONFIRMADO.
// Pasos: resolver cliente por email, crear pedido, reiniciar el borrador.
//
// Con txRunner las dos escrituras son atómicas. Sin él se ejecutan en secuencia y,
// si el pedido falla, se borra el cliente creado en el mismo intento.
type ConversionUseCase struct {
	clients  repository.ClientRepository
	orders   repository.OrderRepository
	txRunner ConversionTxRunner
	log      *logger.Logger
}

// NewConversionUseCase construye el caso de uso. txRunner puede ser nil.
func NewConversionUseCase(clients repository.ClientRepository, orders repository.OrderRepository, txRunner ConversionTxRunner, log *logger.Logger) *ConversionUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConversionUseCase{clients: clients, orders: orders, txRunner: txRunner, log: log}
}

// Convert ejecuta el pipeline para el comprobante de Save. Errores:
//   - domain.ErrInvalidInput      comprobante no emitido por Save.
//   - domain.ErrAlreadyConverted  el comprobante (o la cotización) ya tiene pedido.
//   - *domain.ValidationError     datos del cliente, fecha o precio inválidos.
//   - *domain.ClientCreationError no se pudo resolver/crear el cliente; no se escribió pedido.
//   - *domain.OrderCreationError  no se pudo crear el pedido.
func (uc *ConversionUseCase) Convert(ctx context.Context, rcpt *quotation.Receipt, in Input) (*entity.Order, error) {
	if !rcpt.Valid() {
		return nil, fmt.Errorf("%w: la conversión requiere una cotización recién guardada", domain.ErrInvalidInput)
	}
	if rcpt.Converted() {
		return nil, domain.ErrAlreadyConverted
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	if uc.txRunner != nil {
		order, err = uc.convertInTx(ctx, rcpt.QuotationID, in)
	} else {
		order, err = uc.run(ctx, uc.clients, uc.orders, rcpt.QuotationID, in, true)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("cot_id", rcpt.QuotationID).Msg("conversión fallida")
		return nil, err
	}

	rcpt.Complete()
	uc.log.Info().Str("cot_id", rcpt.QuotationID).Str("ped_id", order.ID).Str("cli_id", order.ClientID).Msg("cotización convertida en pedido")
	return order, nil
}

// convertInTx un email duplicado por carrera aborta la transacción; se reintenta
// una vez completa y la segunda búsqueda encuentra al cliente.
func (uc *ConversionUseCase) convertInTx(ctx context.Context, quotationID string, in Input) (*entity.Order, error) {
	var order *entity.Order
	attempt := func() error {
		return uc.txRunner.RunConversion(ctx, func(clients repository.ClientRepository, orders repository.OrderRepository) error {
			o, err := uc.run(ctx, clients, orders, quotationID, in, false)
			if err != nil {
				return err
			}
			order = o
			return nil
		})
	}
	err := attempt()
	var cce *domain.ClientCreationError
	if errors.As(err, &cce) && errors.Is(err, domain.ErrDuplicate) {
		uc.log.Warn().Str("email", in.Email).Msg("email duplicado durante la conversión, reintentando")
		err = attempt()
	}
	return order, err
}

// run pasos 1 y 2. compensate borra el cliente recién creado si el pedido falla.
func (uc *ConversionUseCase) run(ctx context.Context, clients repository.ClientRepository, orders repository.OrderRepository, quotationID string, in Input, compensate bool) (*entity.Order, error) {
	existing, err := orders.GetByQuotationID(ctx, quotationID)
	if err != nil {
		return nil, &domain.OrderCreationError{Err: err}
	}
	if existing != nil {
		return nil, domain.ErrAlreadyConverted
	}

	// ── 1. Resolver cliente ──────────────────────────────────────────────────
	client, created, err := resolveClient(ctx, clients, in, compensate)
	if err != nil {
		return nil, err
	}

	// ── 2. Crear pedido ──────────────────────────────────────────────────────
	qid := quotationID
	order := &entity.Order{
		ClientID:    client.ID,
		QuotationID: &qid,
		DeliveryAt:  in.DeliveryAt,
		Price:       in.Price,
		Status:      entity.OrderStatusConfirmed,
	}
	if err := orders.Create(ctx, order); err != nil {
		if compensate && created {
			if dErr := clients.Delete(ctx, client.ID); dErr != nil {
				uc.log.Error().Err(dErr).Str("cli_id", client.ID).Msg("no se pudo compensar el cliente creado")
			} else {
				uc.log.Warn().Str("cli_id", client.ID).Msg("cliente creado revertido por falla del pedido")
			}
		}
		return nil, &domain.OrderCreationError{Err: err}
	}
	return order, nil
}

// resolveClient reutiliza el cliente con ese email o lo crea. retryLookup vuelve a
// buscar una vez si la creación choca con un email ya existente.
func resolveClient(ctx context.Context, clients repository.ClientRepository, in Input, retryLookup bool) (*entity.Client, bool, error) {
	found, err := clients.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, false, &domain.ClientCreationError{Err: err}
	}
	if found != nil {
		return found, false, nil
	}
	c := &entity.Client{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}
	err = clients.Create(ctx, c)
	if err == nil {
		return c, true, nil
	}
	if retryLookup && errors.Is(err, domain.ErrDuplicate) {
		found, lErr := clients.GetByEmail(ctx, in.Email)
		if lErr == nil && found != nil {
			return found, false, nil
		}
	}
	return nil, false, &domain.ClientCreationError{Err: err}
}

func normalize(in Input) (Input, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return in, domain.NewValidationError(domain.ReasonMissingClientData)
	}
	if in.DeliveryAt.IsZero() {
		return in, domain.NewValidationError(domain.ReasonMissingDelivery)
	}
	if in.Price.IsNegative() {
		return in, domain.NewValidationError(domain.ReasonNegativePrice)
	}
	return in, nil
}
