package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// Role rol efectivo del llamador.
type Role string

const (
	RoleAdmin Role = entity.RoleAdmin
	RoleUser  Role = entity.RoleUser
)

// IsAdmin indica si el rol ve el catálogo completo.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

var folder = cases.Fold()

// RoleResolver única política (sesión -> rol). Cualquier falla degrada a RoleUser;
// nunca devuelve error.
type RoleResolver struct {
	profiles repository.ProfileRepository
	log      *logger.Logger
}

// NewRoleResolver construye el resolvedor de roles.
func NewRoleResolver(profiles repository.ProfileRepository, log *logger.Logger) *RoleResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &RoleResolver{profiles: profiles, log: log}
}

// Resolve devuelve el rol de la sesión. Sin sesión, sesión offline o sin perfil: RoleUser.
func (r *RoleResolver) Resolve(ctx context.Context, s *entity.Session) Role {
	if s == nil || s.UserID == "" || s.Offline {
		return RoleUser
	}
	p, err := r.profiles.GetByUserID(ctx, s.UserID)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", s.UserID).Msg("no se pudo consultar el perfil, se asume rol user")
		return RoleUser
	}
	if p == nil {
		return RoleUser
	}
	return NormalizeRole(p.Role)
}

// NormalizeRole recorta y pliega mayúsculas; solo "administrador" es admin.
func NormalizeRole(raw string) Role {
	if folder.String(strings.TrimSpace(raw)) == entity.RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
