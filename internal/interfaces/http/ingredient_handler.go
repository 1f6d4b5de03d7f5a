package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// IngredientHandler catálogo de ingredientes y unidades de medida.
type IngredientHandler struct {
	uc *catalog.CatalogUseCase
}

// NewIngredientHandler construye el handler.
func NewIngredientHandler(uc *catalog.CatalogUseCase) *IngredientHandler {
	return &IngredientHandler{uc: uc}
}

// List godoc
// @Summary      Listar ingredientes
// @Description  El administrador ve también los eliminados; el resto solo los activos.
// @Tags         ingredients
// @Produce      json
// @Param        search  query  string  false  "subcadena del nombre"
// @Success      200  {array}   dto.IngredientResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ingredients [get]
func (h *IngredientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListIngredients(c.UserContext(), GetSession(c), c.Query("search"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewIngredientListResponse(list))
}

// GetByID GET /api/ingredients/:id
func (h *IngredientHandler) GetByID(c *fiber.Ctx) error {
	ing, err := h.uc.GetIngredient(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// Create godoc
// @Summary      Crear ingrediente
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIngredientRequest  true  "nombre, precio, unidad"
// @Success      201  {object}  dto.IngredientResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ingredients [post]
func (h *IngredientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIngredientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	ing, err := h.uc.CreateIngredient(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewIngredientResponse(ing))
}

// Update PUT /api/ingredients/:id
func (h *IngredientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateIngredientRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	ing, err := h.uc.UpdateIngredient(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// SetDeleted godoc
// @Summary      Borrado suave o restauración
// @Description  Devuelve el ingrediente releído tras el cambio.
// @Tags         ingredients
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ingrediente"
// @Param        body  body  dto.SetDeletedRequest  true  "is_deleted"
// @Success      200  {object}  dto.IngredientResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/ingredients/{id}/deleted [patch]
func (h *IngredientHandler) SetDeleted(c *fiber.Ctx) error {
	var in dto.SetDeletedRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	id := c.Params("id")
	if err := h.uc.SetDeletedState(c.UserContext(), id, in.IsDeleted); err != nil {
		return errorResponse(c, err)
	}
	ing, err := h.uc.GetIngredient(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewIngredientResponse(ing))
}

// ListUnits GET /api/units
func (h *IngredientHandler) ListUnits(c *fiber.Ctx) error {
	units, err := h.uc.ListUnits(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(unitListResponse(units))
}

func unitListResponse(units []*entity.UnitOfMeasure) []dto.UnitResponse {
	out := make([]dto.UnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name})
	}
	return out
}
