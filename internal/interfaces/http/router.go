package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/gastos-api/internal/application/auth"
	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/application/usecase"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CategoryUC *usecase.CategoryUseCase
	ExpenseUC  *usecase.ExpenseUseCase
	JWTSecret  string
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	authed := AuthMiddleware(deps.JWTSecret, deps.AuthUC)
	anyUser := RequireRole(entity.RoleAdmin, entity.RoleUser)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/currentuser", authed, anyUser, authHandler.CurrentUser)

	// Users (registro y verificación públicos; la consulta es solo admin)
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Register)
	users.Post("/:id/verify-email", userHandler.VerifyEmail)
	users.Get("/:id", authed, adminOnly, userHandler.GetByID)

	// Categories (protegido)
	categories := api.Group("/categories", authed, anyUser)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categoryPages := PaginationMiddleware(query.Options{SortableKeys: dto.CategorySortableKeys})
	categories.Post("/", categoryHandler.Create)
	categories.Post("/default", adminOnly, categoryHandler.CreateDefault)
	categories.Get("/", categoryPages, categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Patch("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Expenses (protegido)
	expenses := api.Group("/expenses", authed, anyUser)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC)
	expensePages := PaginationMiddleware(query.Options{
		SortableKeys: dto.ExpenseSortableKeys,
		DefaultSort:  []query.SortKey{{Field: "date", Order: query.SortDesc}},
	})
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/", expensePages, expenseHandler.List)
	expenses.Get("/:id", expenseHandler.GetByID)
	expenses.Patch("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)
}
