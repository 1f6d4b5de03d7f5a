package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación remota: registro y verificación de credenciales.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, profileRepo repository.ProfileRepository) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, profileRepo: profileRepo}
}

// RegisterUser crea un usuario con su perfil: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe. Sin conexión no hay registro.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.TrimSpace(in.Email)
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "buscar usuario", Err: err}
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, &domain.PersistenceError{Op: "crear usuario", Err: err}
	}
	if err := uc.profileRepo.Upsert(ctx, &entity.Profile{UserID: user.ID, Role: role}); err != nil {
		return nil, &domain.PersistenceError{Op: "crear perfil", Err: err}
	}
	return toUserResponse(user, role), nil
}

// SignIn verifica email/password contra la tabla de usuarios.
func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, &domain.PersistenceError{Op: "buscar usuario", Err: err}
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func toUserResponse(u *entity.User, role string) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
