package dto

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de acceso más el principal autenticado.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        PrincipalResponse `json:"user"`
}
