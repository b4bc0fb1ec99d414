package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleOperador   = "operador"
	RoleFinanciero = "financiero"
)

// ValidRole indica si el rol es conocido.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOperador, RoleFinanciero:
		return true
	}
	return false
}

// User representa un usuario del sistema. Los operadores de las órdenes son
// usuarios con rol operador.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operador, financiero
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
