package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/pkg/jwt"
)

// Locals keys para la sesión y el rol resuelto en Fiber.
const (
	LocalSession = "session"
	LocalRole    = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja la *entity.Session en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		// Las sesiones online siempre traen user_id; solo las offline van sin él.
		if claims.UserID == "" && !claims.Offline {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token sin usuario"})
		}
		c.Locals(LocalSession, &entity.Session{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Offline: claims.Offline,
		})
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (después del middleware de auth).
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// RequireRole resuelve el rol de la sesión contra profiles y bloquea con 403 si no
// está en allowed. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(resolver *catalog.RoleResolver, allowed ...catalog.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada"})
		}
		role := resolver.Resolve(c.UserContext(), s)
		c.Locals(LocalRole, role)
		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + string(role) + "' no tiene acceso a este recurso"})
	}
}

// GetRole rol resuelto por RequireRole ("" si la ruta no lo exige).
func GetRole(c *fiber.Ctx) catalog.Role {
	r, _ := c.Locals(LocalRole).(catalog.Role)
	return r
}
