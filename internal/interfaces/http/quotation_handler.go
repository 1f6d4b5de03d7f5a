package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/conversion"
	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/application/orders"
	"github.com/jhoicas/sippa-api/internal/application/quotation"
)

// QuotationHandler cálculo, guardado, conversión e historial de cotizaciones.
type QuotationHandler struct {
	uc      *quotation.QuotationUseCase
	pdf     *quotation.PDFUseCase
	convert *conversion.ConversionUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *quotation.QuotationUseCase, pdf *quotation.PDFUseCase, convert *conversion.ConversionUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc, pdf: pdf, convert: convert}
}

// Preview godoc
// @Summary      Calcular cotización
// @Description  Totales sobre el catálogo visible para la sesión, sin persistir.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "líneas y modo de precio"
// @Success      200  {object}  dto.QuotationPreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/quotations/preview [post]
func (h *QuotationHandler) Preview(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Preview(c.UserContext(), GetSession(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Guardar cotización
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "líneas y modo de precio"
// @Success      201  {object}  dto.QuotationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	rcpt, err := h.save(c, in)
	if err != nil {
		return errorResponse(c, err)
	}
	q, lines, err := h.uc.Get(c.UserContext(), rcpt.QuotationID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quotation.NewQuotationResponse(q, lines))
}

// Convert godoc
// @Summary      Guardar y convertir en pedido
// @Description  Guarda la cotización y crea el pedido CONFIRMADO; reutiliza el cliente si el email ya existe.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertQuotationRequest  true  "líneas, modo, datos del cliente y entrega"
// @Success      201  {object}  dto.ConvertQuotationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/quotations/convert [post]
func (h *QuotationHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuotationRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	rcpt, err := h.save(c, in.CreateQuotationRequest)
	if err != nil {
		return errorResponse(c, err)
	}
	price := rcpt.Total
	if in.Price != nil {
		price = *in.Price
	}
	order, err := h.convert.Convert(c.UserContext(), rcpt, conversion.Input{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		DeliveryAt: in.DeliveryAt,
		Price:      price,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ConvertQuotationResponse{
		QuotationID: rcpt.QuotationID,
		Order:       orders.NewOrderResponse(order),
	})
}

func (h *QuotationHandler) save(c *fiber.Ctx, in dto.CreateQuotationRequest) (*quotation.Receipt, error) {
	draft, err := h.uc.NewDraft(c.UserContext(), GetSession(c), in)
	if err != nil {
		return nil, err
	}
	return h.uc.Save(c.UserContext(), draft)
}

// List GET /api/quotations?limit=20&offset=0
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/quotations/:id
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	q, lines, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(quotation.NewQuotationResponse(q, lines))
}

// DownloadPDF godoc
// @Summary      PDF de la cotización
// @Tags         quotations
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la cotización"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/quotations/{id}/pdf [get]
func (h *QuotationHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.pdf.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
