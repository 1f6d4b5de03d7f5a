package quotation

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sippa-api/internal/domain/pricing"
)

// Receipt comprobante de un guardado exitoso. Solo Save lo emite y queda ligado al
// borrador que lo originó; es la única entrada aceptada por la conversión.
type Receipt struct {
	QuotationID string
	Total       decimal.Decimal

	mu        sync.Mutex
	issued    bool
	converted bool
	draft     *pricing.Draft
}

// Valid indica que el comprobante salió de Save.
func (r *Receipt) Valid() bool {
	return r != nil && r.issued && r.QuotationID != ""
}

// Converted indica si ya se generó un pedido desde este comprobante.
func (r *Receipt) Converted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.converted
}

// Complete marca el comprobante como convertido y reinicia el borrador ligado.
// Solo debe llamarse después de crear el pedido.
func (r *Receipt) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converted = true
	if r.draft != nil {
		r.draft.Reset()
	}
}
