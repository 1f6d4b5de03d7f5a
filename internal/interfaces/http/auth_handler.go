package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/auth"
	"github.com/jhoicas/sippa-api/internal/application/dto"
)

// AuthHandler maneja registro, login (online u offline) y el estado de la sesión cacheada.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	gate *auth.Gate
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, gate *auth.Gate) *AuthHandler {
	return &AuthHandler{uc: uc, gate: gate}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  Requiere conexión con el backend remoto.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	if !h.gate.Online(c.UserContext()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "OFFLINE", Message: "el registro requiere conexión"})
	}
	user, err := h.uc.RegisterUser(c.UserContext(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Con conexión verifica contra el backend; sin conexión acepta el email de la última sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	res, err := h.gate.SignIn(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(auth.LoginResponse(res))
}

// Cached godoc
// @Summary      Estado de la sesión cacheada
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.CachedSessionResponse
// @Router       /api/auth/cached [get]
func (h *AuthHandler) Cached(c *fiber.Ctx) error {
	cached, err := h.gate.HasCachedSession(c.UserContext())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.CachedSessionResponse{Cached: cached, Online: h.gate.Online(c.UserContext())})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.gate.SignOut(c.UserContext(), GetSession(c))
	return c.SendStatus(fiber.StatusNoContent)
}
