package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/auth"
)

// HealthHandler estado del servicio y conectividad con el backend remoto.
type HealthHandler struct {
	probe auth.Connectivity
}

// NewHealthHandler construye el handler.
func NewHealthHandler(probe auth.Connectivity) *HealthHandler {
	return &HealthHandler{probe: probe}
}

// Health godoc
// @Summary      Salud del servicio
// @Description  backend=offline indica que solo está disponible el login con la credencial local.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	backend := "offline"
	if h.probe != nil && h.probe.IsOnline(c.UserContext()) {
		backend = "online"
	}
	return c.JSON(fiber.Map{"status": "ok", "backend": backend})
}
