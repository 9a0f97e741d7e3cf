package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/application/usecase"
)

// ExpenseHandler maneja el CRUD de gastos.
type ExpenseHandler struct {
	uc *usecase.ExpenseUseCase
}

// NewExpenseHandler construye el handler de gastos.
func NewExpenseHandler(uc *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar gasto
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateExpenseRequest  true  "category, currency, amount, date"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Category == "" || in.Currency == "" || in.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category, currency, amount y date son requeridos"})
	}
	out, err := h.uc.Create(GetPrincipal(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar gastos del usuario
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        category     query  string  false  "id de categoría"
// @Param        currency     query  string  false  "código ISO 4217"
// @Param        amount       query  string  false  "monto exacto"
// @Param        description  query  string  false  "substring de descripción"
// @Param        startDate    query  string  false  "YYYY-MM-DD"
// @Param        endDate      query  string  false  "YYYY-MM-DD (día completo incluido)"
// @Param        select       query  string  false  "campos a proyectar"
// @Success      200  {object}  dto.ListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	sel, err := selectedFields(c, dto.ExpenseFields)
	if err != nil {
		return domainError(c, err)
	}
	in := dto.FetchExpensesRequest{
		CategoryID:  c.Query("category"),
		Currency:    c.Query("currency"),
		Amount:      c.Query("amount"),
		Description: c.Query("description"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
	}
	out, err := h.uc.FindAll(GetPrincipal(c), in, GetPagination(c), sel)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar gasto
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "expense id"
// @Param        select  query  string  false  "campos a proyectar"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	sel, err := selectedFields(c, dto.ExpenseFields)
	if err != nil {
		return domainError(c, err)
	}
	out, err := h.uc.FindOne(GetPrincipal(c), c.Params("id"), sel)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar gasto (parcial)
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "expense id"
// @Param        body  body  dto.UpdateExpenseRequest  true  "campos a cambiar"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/v1/expenses/{id} [patch]
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar gasto
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "expense id"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Remove(GetPrincipal(c), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "gasto eliminado"})
}
