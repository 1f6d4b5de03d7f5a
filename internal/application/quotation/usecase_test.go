package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
)

// ─── Stubs ──────────────────────────────────────────────────────────────────

type stubQuotationRepo struct {
	saved     []*entity.Quotation
	createErr error
	calls     int
}

func (r *stubQuotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	r.calls++
	if r.createErr != nil {
		return r.createErr
	}
	q.ID = fmt.Sprintf("cot-%d", len(r.saved)+1)
	q.CreatedAt = time.Now()
	r.saved = append(r.saved, q)
	return nil
}

func (r *stubQuotationRepo) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	for _, q := range r.saved {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (r *stubQuotationRepo) List(_ context.Context, limit, offset int) ([]*entity.Quotation, error) {
	out := make([]*entity.Quotation, 0, len(r.saved))
	for i := len(r.saved) - 1; i >= 0; i-- {
		out = append(out, r.saved[i])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type stubCatalog struct {
	cat *pricing.Catalog
}

func (s stubCatalog) EligibleCatalog(context.Context, *entity.Session) (*pricing.Catalog, error) {
	return s.cat, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog() *pricing.Catalog {
	return pricing.NewCatalog([]*entity.Ingredient{
		{ID: "1", Name: "Flour", Price: d("2"), UnitName: "gramos"},
		{ID: "2", Name: "Huevo", Price: d("350"), UnitName: "unidad"},
		{ID: "3", Name: "Leche", Price: d("1.5"), UnitName: "cc"},
	})
}

func newUseCase(repo *stubQuotationRepo) *QuotationUseCase {
	return NewQuotationUseCase(repo, stubCatalog{cat: testCatalog()}, "house", pricing.EqualLaborMode(), nil)
}

func marginReq(percent string, lines ...dto.QuotationLineRequest) dto.CreateQuotationRequest {
	return dto.CreateQuotationRequest{
		Lines:   lines,
		Pricing: &dto.PricingModeRequest{Mode: "margin", MarginPercent: d(percent)},
	}
}

func line(id, qty string) dto.QuotationLineRequest {
	return dto.QuotationLineRequest{IngredientID: id, Quantity: d(qty)}
}

// ─── Save ───────────────────────────────────────────────────────────────────

func TestSave_EscenarioMargen30(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	ctx := context.Background()

	draft, err := uc.NewDraft(ctx, nil, marginReq("30", line("1", "500")))
	require.NoError(t, err)

	rcpt, err := uc.Save(ctx, draft)
	require.NoError(t, err)
	require.True(t, rcpt.Valid())
	assert.Equal(t, "cot-1", rcpt.QuotationID)
	assert.True(t, rcpt.Total.Equal(d("1300")))

	require.Len(t, repo.saved, 1)
	q := repo.saved[0]
	assert.True(t, q.Total.Equal(d("1300")))
	require.NotNil(t, q.ClientID)
	assert.Equal(t, "house", *q.ClientID)
	assert.JSONEq(t,
		`[{"ing_id":"1","nombre":"Flour","cantidad":500,"precio_unitario":2,"subtotal":1000,"unidad_medida":"gramos"}]`,
		string(q.Detail))
}

func TestSave_DetalleConNumerosJSON(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	ctx := context.Background()

	draft, err := uc.NewDraft(ctx, nil, marginReq("30", line("1", "500"), line("3", "0.75")))
	require.NoError(t, err)
	_, err = uc.Save(ctx, draft)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(repo.saved[0].Detail, &raw))
	require.Len(t, raw, 2)
	for _, row := range raw {
		for _, k := range []string{"cantidad", "precio_unitario", "subtotal"} {
			assert.IsType(t, float64(0), row[k], "%s debe ser número JSON", k)
		}
		assert.IsType(t, "", row["nombre"])
	}
	assert.Equal(t, 1.5, raw[1]["precio_unitario"])
	assert.Equal(t, 1.125, raw[1]["subtotal"])
}

func TestSave_SeleccionVaciaSinPersistir(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	ctx := context.Background()

	draft, err := uc.NewDraft(ctx, nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{
		line("1", "0"), line("99", "3"), line("2", "-1"),
	}})
	require.NoError(t, err)

	_, err = uc.Save(ctx, draft)
	assert.True(t, domain.IsValidation(err, domain.ReasonEmptySelection))
	assert.Zero(t, repo.calls)

	_, err = uc.Save(ctx, nil)
	assert.True(t, domain.IsValidation(err, domain.ReasonEmptySelection))
}

func TestSave_SeleccionVaciaAntesQueMargenNegativo(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	draft, err := uc.NewDraft(context.Background(), nil, marginReq("-5"))
	require.NoError(t, err)

	_, err = uc.Save(context.Background(), draft)
	assert.True(t, domain.IsValidation(err, domain.ReasonEmptySelection))
}

func TestSave_MargenNegativoSinPersistir(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	draft, err := uc.NewDraft(context.Background(), nil, marginReq("-5", line("1", "10")))
	require.NoError(t, err)

	_, err = uc.Save(context.Background(), draft)
	assert.True(t, domain.IsValidation(err, domain.ReasonNegativeMargin))
	assert.Zero(t, repo.calls)
}

func TestSave_ModoInvalido(t *testing.T) {
	uc := newUseCase(&stubQuotationRepo{})
	req := dto.CreateQuotationRequest{
		Lines:   []dto.QuotationLineRequest{line("1", "1")},
		Pricing: &dto.PricingModeRequest{Mode: "bogus"},
	}
	draft, err := uc.NewDraft(context.Background(), nil, req)
	require.NoError(t, err)

	_, err = uc.Save(context.Background(), draft)
	assert.True(t, domain.IsValidation(err, domain.ReasonInvalidPricingMode))
}

func TestSave_ErrorDePersistencia(t *testing.T) {
	cause := errors.New("new row violates row-level security policy")
	repo := &stubQuotationRepo{createErr: cause}
	uc := newUseCase(repo)
	draft, err := uc.NewDraft(context.Background(), nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{line("2", "1")}})
	require.NoError(t, err)

	_, err = uc.Save(context.Background(), draft)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, repo.calls, "sin reintento automático")
}

func TestSave_EqualLaborPorDefecto(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	draft, err := uc.NewDraft(context.Background(), nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{
		line("2", "1"), line("3", "100.3"),
	}})
	require.NoError(t, err)

	rcpt, err := uc.Save(context.Background(), draft)
	require.NoError(t, err)
	// (350 + 150.45) * 2 = 1000.9
	assert.True(t, rcpt.Total.Equal(d("1001")), rcpt.Total.String())
}

// ─── Detalle ────────────────────────────────────────────────────────────────

func TestDetalle_RoundTripReproduceTotal(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	ctx := context.Background()
	req := marginReq("12.5", line("1", "37.5"), line("2", "3"), line("3", "0.75"), line("99", "2"))

	draft, err := uc.NewDraft(ctx, nil, req)
	require.NoError(t, err)
	res, err := draft.Totals()
	require.NoError(t, err)
	rcpt, err := uc.Save(ctx, draft)
	require.NoError(t, err)

	q, lines, err := uc.Get(ctx, rcpt.QuotationID)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	for i, l := range lines {
		assert.Equal(t, res.Lines[i].Name, l.Name)
		assert.True(t, res.Lines[i].Quantity.Equal(l.Quantity))
		assert.True(t, res.Lines[i].UnitPrice.Equal(l.UnitPrice))
		assert.True(t, res.Lines[i].Subtotal.Equal(l.Subtotal))
	}
	recomputed, err := pricing.Compute(linesToSelected(lines), pricing.MarginMode(d("12.5")))
	require.NoError(t, err)
	assert.True(t, DetailTotal(lines).Equal(res.TotalCost))
	assert.True(t, q.Total.Equal(recomputed.RoundedTotal()))
}

func linesToSelected(lines []entity.QuotationDetailLine) []pricing.SelectedLine {
	out := make([]pricing.SelectedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.SelectedLine{
			IngredientID: l.IngredientID, Name: l.Name, Quantity: l.Quantity,
			UnitPrice: l.UnitPrice, UnitName: l.UnitName, Resolved: true,
		})
	}
	return out
}

func TestDecodeDetail(t *testing.T) {
	lines, err := DecodeDetail(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = DecodeDetail([]byte(`{"no":"array"}`))
	assert.Error(t, err)

	// Filas guardadas con valores entre comillas siguen siendo legibles.
	lines, err = DecodeDetail([]byte(`[{"ing_id":"1","nombre":"Flour","cantidad":"500","precio_unitario":"2","subtotal":"1000","unidad_medida":"gramos"}]`))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Subtotal.Equal(d("1000")))
}

// ─── Consultas ──────────────────────────────────────────────────────────────

func TestGet_NoExiste(t *testing.T) {
	uc := newUseCase(&stubQuotationRepo{})
	_, _, err := uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_MasRecientesPrimero(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	ctx := context.Background()
	for _, qty := range []string{"1", "2"} {
		draft, err := uc.NewDraft(ctx, nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{line("2", qty)}})
		require.NoError(t, err)
		_, err = uc.Save(ctx, draft)
		require.NoError(t, err)
	}

	out, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "cot-2", out.Items[0].ID)
	assert.Equal(t, 20, out.Page.Limit)
	require.Len(t, out.Items[0].Detail, 1)
}

func TestPreview(t *testing.T) {
	uc := newUseCase(&stubQuotationRepo{})
	out, err := uc.Preview(context.Background(), nil, marginReq("30", line("1", "500"), line("2", "0")))
	require.NoError(t, err)
	assert.Len(t, out.Lines, 1)
	assert.True(t, out.TotalCost.Equal(d("1000")))
	assert.True(t, out.LaborCost.Equal(d("300")))
	assert.True(t, out.RoundedTotal.Equal(d("1300")))
}

// ─── Receipt ────────────────────────────────────────────────────────────────

func TestReceipt_CompleteReiniciaBorrador(t *testing.T) {
	uc := newUseCase(&stubQuotationRepo{})
	draft, err := uc.NewDraft(context.Background(), nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{line("2", "1")}})
	require.NoError(t, err)
	rcpt, err := uc.Save(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, 1, draft.EligibleCount(), "guardar no limpia el borrador")
	rcpt.Complete()
	assert.True(t, rcpt.Converted())
	assert.Zero(t, draft.EligibleCount())
	assert.Len(t, draft.Lines(), 1)
}

func TestReceipt_NoEmitidoNoEsValido(t *testing.T) {
	assert.False(t, (&Receipt{QuotationID: "cot-1"}).Valid())
	var r *Receipt
	assert.False(t, r.Valid())
}

// ─── PDF ────────────────────────────────────────────────────────────────────

type stubPDF struct {
	got []entity.QuotationDetailLine
}

func (s *stubPDF) GenerateQuotationPDF(_ context.Context, _ *entity.Quotation, lines []entity.QuotationDetailLine) ([]byte, error) {
	s.got = lines
	return []byte("%PDF"), nil
}

func TestPDFUseCase_Download(t *testing.T) {
	repo := &stubQuotationRepo{}
	uc := newUseCase(repo)
	draft, err := uc.NewDraft(context.Background(), nil, dto.CreateQuotationRequest{Lines: []dto.QuotationLineRequest{line("2", "1")}})
	require.NoError(t, err)
	rcpt, err := uc.Save(context.Background(), draft)
	require.NoError(t, err)

	gen := &stubPDF{}
	pdf, name, err := NewPDFUseCase(uc, gen).Download(context.Background(), rcpt.QuotationID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Equal(t, "cotizacion_cot-1.pdf", name)
	assert.Len(t, gen.got, 1)

	_, _, err = NewPDFUseCase(uc, gen).Download(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
