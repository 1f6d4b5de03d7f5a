package quotation

import (
	"context"
	"fmt"
)

// PDFUseCase genera el PDF imprimible de una cotización guardada.
type PDFUseCase struct {
	quotations *QuotationUseCase
	generator  PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(quotations *QuotationUseCase, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{quotations: quotations, generator: generator}
}

// Download devuelve (pdfBytes, filename). domain.ErrNotFound si la cotización no existe.
func (uc *PDFUseCase) Download(ctx context.Context, id string) ([]byte, string, error) {
	q, lines, err := uc.quotations.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateQuotationPDF(ctx, q, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	short := q.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdf, fmt.Sprintf("cotizacion_%s.pdf", short), nil
}
