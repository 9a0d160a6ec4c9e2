package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("Credenciales incorrectas")
	ErrInvalidCode        = errors.New("Código de verificación incorrecto")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNotFound           = errors.New("client not found")
)

type Role string

const (
	RoleClient   Role = "client"
	RolePharmacy Role = "pharmacy"
)

type Client struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	PasswordHash []byte `json:"-"`
}

// Session is a live login: created on login, looked up per request, removed
// on logout.
type Session struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
