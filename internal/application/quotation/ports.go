package quotation

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
)

// CatalogSource foto del catálogo cotizable, filtrada según el rol de la sesión.
type CatalogSource interface {
	EligibleCatalog(ctx context.Context, s *entity.Session) (*pricing.Catalog, error)
}

// PDFGenerator genera la representación imprimible de una cotización guardada.
type PDFGenerator interface {
	GenerateQuotationPDF(ctx context.Context, q *entity.Quotation, lines []entity.QuotationDetailLine) ([]byte, error)
}
