package conversion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/application/quotation"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

// ─── Stubs ──────────────────────────────────────────────────────────────────

type stubClientRepo struct {
	byEmail   map[string]*entity.Client
	seq       int
	createErr error
	deleteErr error
	// raceEmail simula que otro proceso creó el cliente entre la búsqueda y el alta.
	raceEmail string
	deleted   []string
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byEmail: map[string]*entity.Client{}}
}

func (r *stubClientRepo) Create(_ context.Context, c *entity.Client) error {
	if r.createErr != nil {
		return r.createErr
	}
	if c.Email == r.raceEmail {
		r.raceEmail = ""
		r.seq++
		r.byEmail[c.Email] = &entity.Client{ID: fmt.Sprintf("cli-%d", r.seq), Email: c.Email}
		return domain.ErrDuplicate
	}
	if _, ok := r.byEmail[c.Email]; ok {
		return domain.ErrDuplicate
	}
	r.seq++
	c.ID = fmt.Sprintf("cli-%d", r.seq)
	cp := *c
	r.byEmail[c.Email] = &cp
	return nil
}

func (r *stubClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	for _, c := range r.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *stubClientRepo) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	return r.byEmail[email], nil
}

func (r *stubClientRepo) List(context.Context) ([]*entity.Client, error) { return nil, nil }

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	for email, c := range r.byEmail {
		if c.ID == id {
			delete(r.byEmail, email)
		}
	}
	return nil
}

type stubOrderRepo struct {
	orders    []*entity.Order
	createErr error
}

func (r *stubOrderRepo) Create(_ context.Context, o *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	o.ID = fmt.Sprintf("ped-%d", len(r.orders)+1)
	o.CreatedAt = time.Now()
	r.orders = append(r.orders, o)
	return nil
}

func (r *stubOrderRepo) GetByID(context.Context, string) (*entity.Order, error) { return nil, nil }

func (r *stubOrderRepo) GetByQuotationID(_ context.Context, qid string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.QuotationID != nil && *o.QuotationID == qid {
			return o, nil
		}
	}
	return nil, nil
}

func (r *stubOrderRepo) ListByDeliveryRange(context.Context, time.Time, time.Time) ([]*entity.Order, error) {
	return r.orders, nil
}

func (r *stubOrderRepo) UpdateStatus(context.Context, string, string) error { return nil }

// stubTxRunner revierte el estado de los stubs si fn falla.
type stubTxRunner struct {
	clients *stubClientRepo
	orders  *stubOrderRepo
	runs    int
}

func (t *stubTxRunner) RunConversion(_ context.Context, fn func(repository.ClientRepository, repository.OrderRepository) error) error {
	t.runs++
	snapClients := map[string]*entity.Client{}
	for k, v := range t.clients.byEmail {
		snapClients[k] = v
	}
	snapOrders := append([]*entity.Order(nil), t.orders.orders...)
	if err := fn(t.clients, t.orders); err != nil {
		race := t.clients.byEmail
		t.clients.byEmail = snapClients
		// lo creado por otro proceso (carrera) sobrevive al rollback
		for k, v := range race {
			if _, ok := snapClients[k]; !ok && v.FirstName == "" {
				t.clients.byEmail[k] = v
			}
		}
		t.orders.orders = snapOrders
		return err
	}
	return nil
}

type stubQuotationRepo struct{ n int }

func (r *stubQuotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	r.n++
	q.ID = fmt.Sprintf("cot-%d", r.n)
	q.CreatedAt = time.Now()
	return nil
}
func (r *stubQuotationRepo) GetByID(context.Context, string) (*entity.Quotation, error) {
	return nil, nil
}
func (r *stubQuotationRepo) List(context.Context, int, int) ([]*entity.Quotation, error) {
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) EligibleCatalog(context.Context, *entity.Session) (*pricing.Catalog, error) {
	return pricing.NewCatalog([]*entity.Ingredient{
		{ID: "1", Name: "Flour", Price: decimal.NewFromInt(2), UnitName: "gramos"},
	}), nil
}

// saved guarda una cotización y devuelve el comprobante y su borrador.
func saved(t *testing.T) (*quotation.Receipt, *pricing.Draft) {
	t.Helper()
	quc := quotation.NewQuotationUseCase(&stubQuotationRepo{}, stubCatalog{}, "house", pricing.EqualLaborMode(), nil)
	draft, err := quc.NewDraft(context.Background(), nil, dto.CreateQuotationRequest{
		Lines: []dto.QuotationLineRequest{{IngredientID: "1", Quantity: decimal.NewFromInt(500)}},
	})
	require.NoError(t, err)
	rcpt, err := quc.Save(context.Background(), draft)
	require.NoError(t, err)
	return rcpt, draft
}

func input(email string) Input {
	return Input{
		FirstName:  "Ana",
		LastName:   "Pérez",
		Email:      email,
		DeliveryAt: time.Date(2026, 11, 20, 15, 0, 0, 0, time.UTC),
		Price:      decimal.NewFromInt(2000),
	}
}

// ─── Pipeline secuencial (saga) ─────────────────────────────────────────────

func TestConvert_CreaClienteYPedido(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, draft := saved(t)

	order, err := uc.Convert(context.Background(), rcpt, input("ana@x.com"))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "cli-1", order.ClientID)
	require.NotNil(t, order.QuotationID)
	assert.Equal(t, rcpt.QuotationID, *order.QuotationID)
	assert.True(t, order.Price.Equal(decimal.NewFromInt(2000)))

	assert.True(t, rcpt.Converted())
	assert.Zero(t, draft.EligibleCount(), "borrador reiniciado tras el pedido")
}

func TestConvert_MismoEmailMismoCliente(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	uc := NewConversionUseCase(clients, orders, nil, nil)

	r1, _ := saved(t)
	o1, err := uc.Convert(context.Background(), r1, input("ana@x.com"))
	require.NoError(t, err)

	r2, _ := saved(t)
	r2.QuotationID = "cot-otra"
	o2, err := uc.Convert(context.Background(), r2, input(" ana@x.com "))
	require.NoError(t, err)

	assert.Equal(t, o1.ClientID, o2.ClientID)
	assert.Len(t, clients.byEmail, 1)
}

func TestConvert_ComprobanteNoEmitido(t *testing.T) {
	uc := NewConversionUseCase(newStubClientRepo(), &stubOrderRepo{}, nil, nil)
	_, err := uc.Convert(context.Background(), &quotation.Receipt{QuotationID: "cot-1"}, input("a@x.com"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Convert(context.Background(), nil, input("a@x.com"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConvert_DobleConversion(t *testing.T) {
	uc := NewConversionUseCase(newStubClientRepo(), &stubOrderRepo{}, nil, nil)
	rcpt, _ := saved(t)
	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	require.NoError(t, err)

	_, err = uc.Convert(context.Background(), rcpt, input("a@x.com"))
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
}

func TestConvert_Validaciones(t *testing.T) {
	uc := NewConversionUseCase(newStubClientRepo(), &stubOrderRepo{}, nil, nil)
	rcpt, _ := saved(t)

	in := input("a@x.com")
	in.FirstName = "  "
	_, err := uc.Convert(context.Background(), rcpt, in)
	assert.True(t, domain.IsValidation(err, domain.ReasonMissingClientData))

	in = input("a@x.com")
	in.DeliveryAt = time.Time{}
	_, err = uc.Convert(context.Background(), rcpt, in)
	assert.True(t, domain.IsValidation(err, domain.ReasonMissingDelivery))

	in = input("a@x.com")
	in.Price = decimal.NewFromInt(-1)
	_, err = uc.Convert(context.Background(), rcpt, in)
	assert.True(t, domain.IsValidation(err, domain.ReasonNegativePrice))

	assert.False(t, rcpt.Converted())
}

func TestConvert_FallaClienteAbortaSinPedido(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	clients.createErr = errors.New("permission denied for table cliente")
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, draft := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	var cce *domain.ClientCreationError
	require.ErrorAs(t, err, &cce)
	assert.EqualError(t, cce.Err, "permission denied for table cliente")
	assert.Empty(t, orders.orders)
	assert.Equal(t, 1, draft.EligibleCount(), "el borrador se conserva")
	assert.False(t, rcpt.Converted())
}

func TestConvert_FallaPedidoCompensaCliente(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{createErr: errors.New("check constraint")}
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, draft := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	var oce *domain.OrderCreationError
	require.ErrorAs(t, err, &oce)
	assert.Equal(t, []string{"cli-1"}, clients.deleted)
	assert.Empty(t, clients.byEmail)
	assert.Equal(t, 1, draft.EligibleCount())
}

func TestConvert_FallaPedidoNoBorraClienteExistente(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	clients.byEmail["a@x.com"] = &entity.Client{ID: "cli-previo", Email: "a@x.com"}
	orders.createErr = errors.New("timeout")
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, _ := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	require.Error(t, err)
	assert.Empty(t, clients.deleted)
}

func TestConvert_FallaCompensacionSeReportaComoPedido(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{createErr: errors.New("timeout")}
	clients.deleteErr = errors.New("offline")
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, _ := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	var oce *domain.OrderCreationError
	assert.ErrorAs(t, err, &oce)
}

func TestConvert_CarreraDeEmailReintentaBusqueda(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	clients.raceEmail = "a@x.com"
	uc := NewConversionUseCase(clients, orders, nil, nil)
	rcpt, _ := saved(t)

	order, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "cli-1", order.ClientID)
	assert.Len(t, clients.byEmail, 1)
}

// ─── Transaccional ──────────────────────────────────────────────────────────

func TestConvertTx_FallaPedidoRevierteCliente(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{createErr: errors.New("boom")}
	tx := &stubTxRunner{clients: clients, orders: orders}
	uc := NewConversionUseCase(clients, orders, tx, nil)
	rcpt, _ := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	var oce *domain.OrderCreationError
	require.ErrorAs(t, err, &oce)
	assert.Empty(t, clients.byEmail, "rollback de la transacción")
	assert.Empty(t, clients.deleted, "sin compensación manual dentro de la transacción")
}

func TestConvertTx_CarreraReintentaTransaccion(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	clients.raceEmail = "a@x.com"
	tx := &stubTxRunner{clients: clients, orders: orders}
	uc := NewConversionUseCase(clients, orders, tx, nil)
	rcpt, _ := saved(t)

	order, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 2, tx.runs)
	assert.Equal(t, "cli-1", order.ClientID)
	assert.True(t, rcpt.Converted())
}

func TestConvertTx_Exito(t *testing.T) {
	clients, orders := newStubClientRepo(), &stubOrderRepo{}
	tx := &stubTxRunner{clients: clients, orders: orders}
	uc := NewConversionUseCase(clients, orders, tx, nil)
	rcpt, _ := saved(t)

	_, err := uc.Convert(context.Background(), rcpt, input("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.runs)
	assert.Len(t, orders.orders, 1)
}
