package http_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/auth"
	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/conversion"
	"github.com/jhoicas/sippa-api/internal/application/orders"
	"github.com/jhoicas/sippa-api/internal/application/quotation"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
	apphttp "github.com/jhoicas/sippa-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memIngredients struct {
	mu    sync.Mutex
	items map[string]*entity.Ingredient
}

func (r *memIngredients) Create(_ context.Context, i *entity.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *i
	r.items[i.ID] = &cp
	return nil
}

func (r *memIngredients) GetByID(_ context.Context, id string) (*entity.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memIngredients) Update(_ context.Context, i *entity.Ingredient) error {
	return r.Create(context.Background(), i)
}

func (r *memIngredients) List(_ context.Context, f repository.IngredientFilter) ([]*entity.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Ingredient
	for _, it := range r.items {
		if it.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memIngredients) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.IsDeleted = deleted
	return nil
}

type memUnits struct{}

func (memUnits) List(context.Context) ([]*entity.UnitOfMeasure, error) {
	return []*entity.UnitOfMeasure{{ID: 2, Name: "gramos"}, {ID: 1, Name: "unidad"}}, nil
}

type memProfiles struct {
	roles map[string]string
}

func (r *memProfiles) GetByUserID(_ context.Context, id string) (*entity.Profile, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, nil
	}
	return &entity.Profile{UserID: id, Role: role}, nil
}

func (r *memProfiles) Upsert(_ context.Context, p *entity.Profile) error {
	r.roles[p.UserID] = p.Role
	return nil
}

type memUsers struct {
	byEmail map[string]*entity.User
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrDuplicate
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for k, u := range r.byEmail {
		if strings.EqualFold(k, email) {
			return u, nil
		}
	}
	return nil, nil
}

type memQuotations struct {
	mu    sync.Mutex
	seq   int
	items []*entity.Quotation
}

func (r *memQuotations) Create(_ context.Context, q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	q.ID = fmt.Sprintf("cot-%04d-0000-0000", r.seq)
	q.CreatedAt = time.Now()
	cp := *q
	r.items = append(r.items, &cp)
	return nil
}

func (r *memQuotations) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.items {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memQuotations) List(_ context.Context, limit, offset int) ([]*entity.Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Quotation
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memClients struct {
	mu    sync.Mutex
	seq   int
	items map[string]*entity.Client
}

func (r *memClients) Create(_ context.Context, c *entity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == c.Email {
			return domain.ErrDuplicate
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("cli-%d", r.seq)
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *memClients) GetByEmail(_ context.Context, email string) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memClients) List(context.Context) ([]*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Client, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memClients) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memOrders struct {
	mu    sync.Mutex
	seq   int
	items map[string]*entity.Order
}

func (r *memOrders) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.QuotationID != nil {
		for _, existing := range r.items {
			if existing.QuotationID != nil && *existing.QuotationID == *o.QuotationID {
				return domain.ErrAlreadyConverted
			}
		}
	}
	r.seq++
	o.ID = fmt.Sprintf("ped-%d", r.seq)
	o.CreatedAt = time.Now()
	cp := *o
	r.items[o.ID] = &cp
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrders) GetByQuotationID(_ context.Context, quotationID string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.QuotationID != nil && *o.QuotationID == quotationID {
			return o, nil
		}
	}
	return nil, nil
}

func (r *memOrders) ListByDeliveryRange(_ context.Context, from, to time.Time) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.items {
		if !o.DeliveryAt.Before(from) && o.DeliveryAt.Before(to) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeliveryAt.Before(out[j].DeliveryAt) })
	return out, nil
}

func (r *memOrders) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertos de infraestructura
// ──────────────────────────────────────────────────────────────────────────────

type fakeProbe struct{ online bool }

func (p *fakeProbe) IsOnline(context.Context) bool { return p.online }

type memCredential struct{ email string }

func (s *memCredential) SetCredential(_ context.Context, email string) error {
	s.email = email
	return nil
}

func (s *memCredential) HasCredential(context.Context) (bool, error) { return s.email != "", nil }

func (s *memCredential) MatchesCredential(_ context.Context, email string) (bool, error) {
	return s.email != "" && s.email == email, nil
}

type fakePDF struct{}

func (fakePDF) GenerateQuotationPDF(context.Context, *entity.Quotation, []entity.QuotationDetailLine) ([]byte, error) {
	return []byte("%PDF-1.4 fake"), nil
}

type fakeAgenda struct{}

func (fakeAgenda) ExportAgenda(_ context.Context, w io.Writer, rows []orders.AgendaRow) error {
	_, err := fmt.Fprintf(w, "filas=%d", len(rows))
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "sippa-test"
	testExpMin    = 60
	adminUserID   = "00000000-0000-0000-0000-00000000000a"
	plainUserID   = "00000000-0000-0000-0000-00000000000b"
)

type testEnv struct {
	app         *fiber.App
	probe       *fakeProbe
	credentials *memCredential
	ingredients *memIngredients
	quotations  *memQuotations
	clients     *memClients
	orders      *memOrders
	users       *memUsers
}

func newTestEnv() *testEnv {
	env := &testEnv{
		probe:       &fakeProbe{online: true},
		credentials: &memCredential{},
		ingredients: &memIngredients{items: map[string]*entity.Ingredient{
			"ing-1": {ID: "ing-1", Name: "Harina", Price: mustDecimal("2"), UnitID: 2, UnitName: "gramos"},
			"ing-2": {ID: "ing-2", Name: "Huevo", Price: mustDecimal("350"), UnitID: 1, UnitName: "unidad"},
			"ing-3": {ID: "ing-3", Name: "Azafrán", Price: mustDecimal("900"), UnitID: 2, UnitName: "gramos", IsDeleted: true},
		}},
		quotations: &memQuotations{},
		clients:    &memClients{items: map[string]*entity.Client{}},
		orders:     &memOrders{items: map[string]*entity.Order{}},
		users:      &memUsers{byEmail: map[string]*entity.User{}},
	}
	profiles := &memProfiles{roles: map[string]string{adminUserID: " Administrador ", plainUserID: "user"}}

	roles := catalog.NewRoleResolver(profiles, nil)
	catalogUC := catalog.NewCatalogUseCase(env.ingredients, memUnits{}, roles)
	quotationUC := quotation.NewQuotationUseCase(env.quotations, catalogUC, "house", pricing.EqualLaborMode(), nil)
	authUC := auth.NewAuthUseCase(env.users, profiles)
	jwtCfg := auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}

	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		AuthUC:       authUC,
		Gate:         auth.NewGate(env.probe, authUC, env.credentials, roles, jwtCfg, nil),
		Probe:        env.probe,
		Roles:        roles,
		CatalogUC:    catalogUC,
		QuotationUC:  quotationUC,
		PDFUC:        quotation.NewPDFUseCase(quotationUC, fakePDF{}),
		ConversionUC: conversion.NewConversionUseCase(env.clients, env.orders, nil, nil),
		ClientUC:     orders.NewClientUseCase(env.clients),
		OrderUC:      orders.NewOrderUseCase(env.orders, env.clients, fakeAgenda{}, nil),
		JWTSecret:    testJWTSecret,
	})
	return env
}
