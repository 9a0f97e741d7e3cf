package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/gastos-api/internal/application/auth"
	"github.com/tu-usuario/gastos-api/internal/application/dto"
)

// AuthHandler maneja login y el echo del principal autenticado.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	principal, err := h.uc.Authenticate(in.Email, in.Password)
	if err != nil {
		return domainError(c, err)
	}
	if principal == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	out, err := h.uc.Login(principal)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// CurrentUser godoc
// @Summary      Principal autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PrincipalResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/v1/auth/currentuser [get]
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "autenticación requerida"})
	}
	return c.JSON(dto.ToPrincipalResponse(p))
}
