package dto

import (
	"time"

	"github.com/tu-usuario/gastos-api/internal/domain/entity"
)

// CreateUserRequest entrada del registro (password en texto, se hashea en el use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// VerifyEmailRequest código de verificación de 6 dígitos enviado por correo.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,len=6"`
}

// RegisteredResponse respuesta mínima del registro: nunca incluye el hash
// ni el token de verificación.
type RegisteredResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserResponse salida de un usuario (sanitizada).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrincipalResponse identidad del llamador autenticado.
type PrincipalResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// ToUserResponse convierte la entidad en su salida sanitizada.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToPrincipalResponse convierte el principal efímero en su salida.
func ToPrincipalResponse(p *entity.Principal) *PrincipalResponse {
	if p == nil {
		return nil
	}
	return &PrincipalResponse{ID: p.ID, Email: p.Email, Name: p.Name, Role: p.Role, Active: p.Active}
}
