package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/application/orders"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClientHandler clientes de la empresa.
type ClientHandler struct {
	uc *orders.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *orders.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	client, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// List GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// OrderHandler agenda de pedidos.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Schedule godoc
// @Summary      Agendar pedido directo
// @Description  Pedido sin cotización en estado PENDIENTE; el cliente debe existir.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduleOrderRequest  true  "cliente, entrega y precio"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders [post]
func (h *OrderHandler) Schedule(c *fiber.Ctx) error {
	var in dto.ScheduleOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	o, err := h.uc.Schedule(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(orders.NewOrderResponse(o))
}

// List godoc
// @Summary      Agenda de pedidos
// @Description  Pedidos con entrega en [from, to). Sin fechas usa el mes en curso.
// @Tags         orders
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	list, err := h.uc.ListOrders(c.UserContext(), from, to)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, orders.NewOrderResponse(o))
	}
	return c.JSON(out)
}

// UpdateStatus PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	o, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(orders.NewOrderResponse(o))
}

// Export godoc
// @Summary      Exportar agenda a Excel
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  binary
// @Security     BearerAuth
// @Router       /api/orders/export [get]
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	var buf bytes.Buffer
	if err := h.uc.ExportAgenda(c.UserContext(), &buf, from, to); err != nil {
		return errorResponse(c, err)
	}
	name := "agenda.xlsx"
	if !from.IsZero() {
		name = fmt.Sprintf("agenda_%s.xlsx", from.Format("2006-01-02"))
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}

func dateRange(c *fiber.Ctx) (time.Time, time.Time, bool, error) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return time.Time{}, time.Time{}, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe tener formato YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return time.Time{}, time.Time{}, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe tener formato YYYY-MM-DD"})
	}
	return from, to, true, nil
}
