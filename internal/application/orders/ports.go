package orders

import (
	"context"
	"io"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// AgendaRow pedido con el nombre del cliente ya resuelto.
type AgendaRow struct {
	Order  *entity.Order
	Client *entity.Client // nil si el cliente ya no existe
}

// AgendaExporter escribe la agenda de pedidos en un formato descargable.
type AgendaExporter interface {
	ExportAgenda(ctx context.Context, w io.Writer, rows []AgendaRow) error
}
