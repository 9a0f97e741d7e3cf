package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// ExpenseFields allow-list de proyección para Expense; también es el
// conjunto por defecto.
var ExpenseFields = []string{"category", "currency", "amount", "description", "date", "createdAt"}

// ExpenseSortableKeys claves admitidas en sortBy para listados de gastos.
var ExpenseSortableKeys = []string{"date", "amount", "category", "currency", "createdAt", "updatedAt"}

// CreateExpenseRequest entrada para registrar un gasto. Date acepta
// YYYY-MM-DD o RFC 3339.
type CreateExpenseRequest struct {
	Category    string          `json:"category" validate:"required,uuid"`
	Currency    string          `json:"currency" validate:"required,iso4217"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        string          `json:"date" validate:"required"`
	Description string          `json:"description"`
}

// UpdateExpenseRequest entrada parcial: solo se aplican los campos presentes
// y distintos del valor actual.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category"`
	Currency    *string          `json:"currency"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
}

// FetchExpensesRequest filtros del listado (vienen de la query string).
type FetchExpensesRequest struct {
	CategoryID  string
	Currency    string
	Amount      string
	Description string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
}

// ExpenseView serializa el gasto aplicando la proyección. El id se incluye
// siempre; category expone el id de la categoría y, si el repositorio la
// pobló, su nombre.
func ExpenseView(e *entity.Expense, sel query.Projection) map[string]any {
	if e == nil {
		return nil
	}
	view := map[string]any{"id": e.ID}
	if sel.Has("category") {
		if e.CategoryName != "" {
			view["category"] = map[string]any{"id": e.CategoryID, "name": e.CategoryName}
		} else {
			view["category"] = e.CategoryID
		}
	}
	if sel.Has("currency") {
		view["currency"] = e.Currency
	}
	if sel.Has("amount") {
		view["amount"] = e.Amount
	}
	if sel.Has("description") {
		view["description"] = e.Description
	}
	if sel.Has("date") {
		view["date"] = e.Date
	}
	if sel.Has("createdAt") {
		view["createdAt"] = e.CreatedAt
	}
	return view
}
