package entity

import "time"

// Roles válidos (tabla profiles).
const (
	RoleAdmin = "administrador"
	RoleUser  = "user"
)

// User usuario que inicia sesión contra el backend remoto.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile fila de perfiles con el rol del usuario.
type Profile struct {
	UserID string
	Role   string
}

// Session identidad del llamador. Offline indica una sesión concedida con la
// credencial local, sin verificación remota.
type Session struct {
	UserID  string
	Email   string
	Offline bool
}
