// Package export genera la agenda de pedidos como planilla Excel.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/sippa-api/internal/application/orders"
)

var _ orders.AgendaExporter = (*AgendaXLSX)(nil)

const agendaSheet = "Agenda"

var agendaHeaders = []string{"Entrega", "Cliente", "Email", "Estado", "Precio", "Cotización", "Pedido"}

// AgendaXLSX implementa orders.AgendaExporter con excelize.
type AgendaXLSX struct{}

// NewAgendaXLSX construye el exportador.
func NewAgendaXLSX() *AgendaXLSX { return &AgendaXLSX{} }

// ExportAgenda escribe una hoja con una fila por pedido, en el orden recibido.
func (e *AgendaXLSX) ExportAgenda(_ context.Context, w io.Writer, rows []orders.AgendaRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", agendaSheet); err != nil {
		return fmt.Errorf("xlsx: hoja: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"963C28"}},
	})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range agendaHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(agendaSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx: cabecera: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(agendaHeaders), 1)
	if err := f.SetCellStyle(agendaSheet, "A1", last, header); err != nil {
		return fmt.Errorf("xlsx: cabecera: %w", err)
	}

	for i, r := range rows {
		n := i + 2
		name, email := "(cliente eliminado)", ""
		if r.Client != nil {
			name = r.Client.FirstName + " " + r.Client.LastName
			email = r.Client.Email
		}
		quotationID := ""
		if r.Order.QuotationID != nil {
			quotationID = *r.Order.QuotationID
		}
		price, _ := r.Order.Price.Float64()
		values := []any{r.Order.DeliveryAt, name, email, r.Order.Status, price, quotationID, r.Order.ID}
		cell, _ := excelize.CoordinatesToCellName(1, n)
		if err := f.SetSheetRow(agendaSheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", n, err)
		}
		if err := f.SetCellStyle(agendaSheet, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", n, err)
		}
	}

	_ = f.SetColWidth(agendaSheet, "A", "A", 18)
	_ = f.SetColWidth(agendaSheet, "B", "C", 28)
	_ = f.SetColWidth(agendaSheet, "F", "G", 38)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: escribir: %w", err)
	}
	return nil
}
