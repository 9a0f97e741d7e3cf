package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa una cuenta del sistema. Nunca se elimina físicamente:
// Deleted marca el borrado lógico.
type User struct {
	ID                string
	Email             string // único, normalizado a minúsculas
	Name              string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	Role              string // admin, user
	Active            bool   // false hasta verificar el email
	VerificationToken string // bcrypt hash del código de 6 dígitos; vacío tras verificar
	Deleted           bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Principal es la identidad mínima del llamador autenticado, derivada de un
// token verificado y re-chequeada contra el registro persistido en cada request.
type Principal struct {
	ID     string
	Email  string
	Name   string
	Role   string
	Active bool
}

// PrincipalFromUser construye el principal efímero a partir del registro persistido.
func PrincipalFromUser(u *User) *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Active: u.Active,
	}
}
