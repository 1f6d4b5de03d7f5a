package entity

import "time"

// Client cliente de la empresa de catering. El email es la clave natural.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}
