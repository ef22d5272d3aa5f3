package entity

import (
	"slices"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// Capacidades que resuelve la capa de permisos.
const (
	PermissionAll       = "all"
	PermissionInventory = "inventory"
	PermissionReports   = "reports"
)

// User representa un usuario del sistema. Es el actor referenciado por cada movimiento.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string   // admin, bodeguero, vendedor
	Permissions  []string // all | inventory | reports
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission informa si el usuario tiene la capacidad (o "all").
func HasPermission(perms []string, capability string) bool {
	return slices.Contains(perms, PermissionAll) || slices.Contains(perms, capability)
}

// DefaultPermissions devuelve las capacidades por defecto de un rol.
func DefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{PermissionAll}
	case RoleBodeguero:
		return []string{PermissionInventory, PermissionReports}
	default:
		return []string{PermissionReports}
	}
}
