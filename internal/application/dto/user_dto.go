package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterUserRequest alta de usuario (solo administradores).
type RegisterUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	Name        string   `json:"nombre" validate:"max=200"`
	Role        string   `json:"rol" validate:"omitempty,oneof=admin bodeguero vendedor"`
	Permissions []string `json:"permisos" validate:"omitempty,dive,oneof=all inventory reports"`
}

// UserResponse salida de un usuario (sin hash).
type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"nombre"`
	Role        string    `json:"rol"`
	Permissions []string  `json:"permisos"`
	Active      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}
