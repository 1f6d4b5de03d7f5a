package quotation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// QuotationUseCase ciclo de vida de una cotización: cálculo, guardado e historial.
type QuotationUseCase struct {
	repo          repository.QuotationRepository
	catalog       CatalogSource
	houseClientID string
	defaultMode   pricing.Mode
	log           *logger.Logger
}

// NewQuotationUseCase construye el caso de uso. houseClientID es el cliente
// "mostrador" asignado mientras la cotización no tenga cliente propio.
func NewQuotationUseCase(repo repository.QuotationRepository, catalog CatalogSource, houseClientID string, defaultMode pricing.Mode, log *logger.Logger) *QuotationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &QuotationUseCase{
		repo:          repo,
		catalog:       catalog,
		houseClientID: houseClientID,
		defaultMode:   defaultMode,
		log:           log,
	}
}

// ModeFromRequest traduce el modo de la petición sin validarlo; nil usa el modo por defecto.
// La validación ocurre al calcular o guardar.
func (uc *QuotationUseCase) ModeFromRequest(p *dto.PricingModeRequest) pricing.Mode {
	if p == nil || p.Mode == "" {
		return uc.defaultMode
	}
	return pricing.Mode{Kind: pricing.Kind(p.Mode), MarginPercent: p.MarginPercent}
}

// NewDraft arma un borrador sobre la foto actual del catálogo visible para la sesión.
func (uc *QuotationUseCase) NewDraft(ctx context.Context, s *entity.Session, req dto.CreateQuotationRequest) (*pricing.Draft, error) {
	cat, err := uc.catalog.EligibleCatalog(ctx, s)
	if err != nil {
		return nil, err
	}
	sels := make([]pricing.Selection, 0, len(req.Lines))
	for _, l := range req.Lines {
		sels = append(sels, pricing.Selection{IngredientID: l.IngredientID, Quantity: l.Quantity})
	}
	return pricing.DraftFromSelections(cat, uc.ModeFromRequest(req.Pricing), sels), nil
}

// Preview calcula los totales sin persistir.
func (uc *QuotationUseCase) Preview(ctx context.Context, s *entity.Session, req dto.CreateQuotationRequest) (*dto.QuotationPreviewResponse, error) {
	draft, err := uc.NewDraft(ctx, s, req)
	if err != nil {
		return nil, err
	}
	res, err := draft.Totals()
	if err != nil {
		return nil, err
	}
	out := &dto.QuotationPreviewResponse{
		Lines:          make([]dto.QuotationLineResponse, 0, len(res.Lines)),
		TotalCost:      res.TotalCost,
		LaborCost:      res.LaborCost,
		SuggestedPrice: res.SuggestedPrice,
		RoundedTotal:   res.RoundedTotal(),
	}
	for _, l := range BuildDetail(res) {
		out.Lines = append(out.Lines, lineResponse(l))
	}
	return out, nil
}

// Save valida y persiste la cotización del borrador. Las validaciones (selección
// vacía, luego modo) ocurren antes de cualquier llamada al backend.
func (uc *QuotationUseCase) Save(ctx context.Context, draft *pricing.Draft) (*Receipt, error) {
	if draft == nil || draft.EligibleCount() == 0 {
		return nil, domain.NewValidationError(domain.ReasonEmptySelection)
	}
	if err := draft.Mode().Validate(); err != nil {
		return nil, err
	}
	res, err := draft.Totals()
	if err != nil {
		return nil, err
	}

	detail, err := json.Marshal(BuildDetail(res))
	if err != nil {
		return nil, fmt.Errorf("cotización: serializar detalle: %w", err)
	}
	q := &entity.Quotation{
		Total:  res.RoundedTotal(),
		Detail: detail,
	}
	if uc.houseClientID != "" {
		client := uc.houseClientID
		q.ClientID = &client
	}
	if err := uc.repo.Create(ctx, q); err != nil {
		uc.log.Error().Err(err).Msg("no se pudo guardar la cotización")
		return nil, &domain.PersistenceError{Op: "guardar cotización", Err: err}
	}
	uc.log.Info().Str("cot_id", q.ID).Str("total", q.Total.String()).Msg("cotización guardada")
	return &Receipt{QuotationID: q.ID, Total: q.Total, issued: true, draft: draft}, nil
}

// Get obtiene una cotización con su detalle decodificado.
func (uc *QuotationUseCase) Get(ctx context.Context, id string) (*entity.Quotation, []entity.QuotationDetailLine, error) {
	q, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if q == nil {
		return nil, nil, domain.ErrNotFound
	}
	lines, err := DecodeDetail(q.Detail)
	if err != nil {
		return nil, nil, err
	}
	return q, lines, nil
}

// List historial de cotizaciones, más recientes primero.
func (uc *QuotationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.QuotationListResponse, error) {
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	limit, offset := page.Limit, page.Offset
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar cotizaciones", Err: err}
	}
	out := &dto.QuotationListResponse{
		Items: make([]dto.QuotationResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, q := range list {
		lines, err := DecodeDetail(q.Detail)
		if err != nil {
			uc.log.Warn().Err(err).Str("cot_id", q.ID).Msg("detalle de cotización ilegible")
		}
		out.Items = append(out.Items, NewQuotationResponse(q, lines))
	}
	return out, nil
}

// BuildDetail foto inmutable de las líneas elegibles en su forma persistida.
func BuildDetail(res pricing.Result) []entity.QuotationDetailLine {
	out := make([]entity.QuotationDetailLine, 0, len(res.Lines))
	for _, l := range res.Lines {
		out = append(out, entity.QuotationDetailLine{
			IngredientID: l.IngredientID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.Subtotal,
			UnitName:     l.UnitName,
		})
	}
	return out
}

// DecodeDetail lee el detalle persistido. Un detalle vacío es una lista vacía.
func DecodeDetail(raw json.RawMessage) ([]entity.QuotationDetailLine, error) {
	if len(raw) == 0 {
		return []entity.QuotationDetailLine{}, nil
	}
	var lines []entity.QuotationDetailLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("cotización: detalle inválido: %w", err)
	}
	return lines, nil
}

// DetailTotal suma de subtotales del detalle.
func DetailTotal(lines []entity.QuotationDetailLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal)
	}
	return sum
}

// NewQuotationResponse mapea la entidad a su salida HTTP.
func NewQuotationResponse(q *entity.Quotation, lines []entity.QuotationDetailLine) dto.QuotationResponse {
	out := dto.QuotationResponse{
		ID:        q.ID,
		CreatedAt: q.CreatedAt,
		Total:     q.Total,
		ClientID:  q.ClientID,
		Detail:    make([]dto.QuotationLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Detail = append(out.Detail, lineResponse(l))
	}
	return out
}

func lineResponse(l entity.QuotationDetailLine) dto.QuotationLineResponse {
	return dto.QuotationLineResponse{
		IngredientID: l.IngredientID,
		Name:         l.Name,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		Subtotal:     l.Subtotal,
		UnitName:     l.UnitName,
	}
}
