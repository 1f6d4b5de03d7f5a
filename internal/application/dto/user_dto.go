package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=administrador user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// LoginResponse estado del gate y token. User es nil en login offline.
type LoginResponse struct {
	State string        `json:"state"` // ONLINE_AUTH | OFFLINE_AUTH
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

// CachedSessionResponse indica si hay una credencial local almacenada.
type CachedSessionResponse struct {
	Cached bool `json:"cached"`
	Online bool `json:"online"`
}
