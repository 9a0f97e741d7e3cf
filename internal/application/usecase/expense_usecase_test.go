package usecase_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/application/usecase"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memExpenseRepo implementa ExpenseRepository sobre un slice, con acceso al
// repo de categorías para poblar el nombre cuando el filtro lo pide.
type memExpenseRepo struct {
	expenses   []*entity.Expense
	categories *memCategoryRepo
	lastFilter repository.ExpenseFilter
}

func (m *memExpenseRepo) Create(e *entity.Expense) error {
	copied := *e
	m.expenses = append(m.expenses, &copied)
	return nil
}

func (m *memExpenseRepo) GetByIDAndOwner(id, userID string) (*entity.Expense, error) {
	for _, e := range m.expenses {
		if e.ID == id && e.UserID == userID {
			copied := *e
			m.populate(&copied)
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memExpenseRepo) List(userID string, filter repository.ExpenseFilter, page *query.Pagination) ([]*entity.Expense, error) {
	m.lastFilter = filter
	var out []*entity.Expense
	for _, e := range m.expenses {
		if e.UserID != userID {
			continue
		}
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Currency != "" && e.Currency != filter.Currency {
			continue
		}
		if filter.Description != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(filter.Description)) {
			continue
		}
		if filter.Amount != nil && !e.Amount.Equal(*filter.Amount) {
			continue
		}
		if filter.DateFrom != nil && e.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.Date.After(*filter.DateTo) {
			continue
		}
		copied := *e
		if filter.WithCategory {
			m.populate(&copied)
		}
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memExpenseRepo) Exists(id, userID string) (bool, error) {
	for _, e := range m.expenses {
		if e.ID == id && e.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memExpenseRepo) Update(e *entity.Expense) error {
	for i, existing := range m.expenses {
		if existing.ID == e.ID {
			copied := *e
			m.expenses[i] = &copied
			return nil
		}
	}
	return nil
}

func (m *memExpenseRepo) Delete(id string) error {
	for i, e := range m.expenses {
		if e.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memExpenseRepo) populate(e *entity.Expense) {
	if m.categories == nil {
		return
	}
	for _, c := range m.categories.categories {
		if c.ID == e.CategoryID {
			e.CategoryName = c.Name
			return
		}
	}
}

// newExpenseUC arma el caso de uso con una categoría visible sembrada.
func newExpenseUC(p *entity.Principal) (*usecase.ExpenseUseCase, *memExpenseRepo, *entity.Category) {
	category := seedCategory("Comida", entity.CategoryTypeUser, p.ID, false)
	catRepo := &memCategoryRepo{categories: []*entity.Category{category}}
	categoryUC := usecase.NewCategoryUseCase(catRepo, &memTxRunner{repo: catRepo})
	repo := &memExpenseRepo{categories: catRepo}
	return usecase.NewExpenseUseCase(repo, categoryUC), repo, category
}

func fullExpenseProjection(t *testing.T) query.Projection {
	t.Helper()
	sel, err := query.ResolveProjection(nil, dto.ExpenseFields)
	require.NoError(t, err)
	return sel
}

func dec(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestExpenseCreate_OK(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, category := newExpenseUC(p)

	out, err := uc.Create(p, dto.CreateExpenseRequest{
		Category:    category.ID,
		Currency:    "usd",
		Amount:      dec(t, "12.50"),
		Date:        "2025-03-10",
		Description: "almuerzo",
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", out["currency"], "la moneda se normaliza a mayúsculas")
	assert.Equal(t, "almuerzo", out["description"])
	require.Len(t, repo.expenses, 1)
	assert.Equal(t, p.ID, repo.expenses[0].UserID)
}

func TestExpenseCreate_CategoriaInvisible_Precondicion(t *testing.T) {
	p := principal(entity.RoleUser)
	other := principal(entity.RoleUser)
	uc, _, _ := newExpenseUC(p)

	ajena := seedCategory("Ajena", entity.CategoryTypeUser, other.ID, false)
	_, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: ajena.ID,
		Currency: "USD",
		Amount:   dec(t, "10"),
		Date:     "2025-03-10",
	})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed,
		"una categoría invisible es precondición fallida, no not-found")
}

func TestExpenseCreate_Validaciones(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, category := newExpenseUC(p)

	base := dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "USD",
		Amount:   dec(t, "10"),
		Date:     "2025-03-10",
	}

	tests := []struct {
		name   string
		mutate func(in *dto.CreateExpenseRequest)
	}{
		{"moneda fuera de ISO 4217", func(in *dto.CreateExpenseRequest) { in.Currency = "XYZ1" }},
		{"monto negativo", func(in *dto.CreateExpenseRequest) { in.Amount = dec(t, "-5") }},
		{"monto cero", func(in *dto.CreateExpenseRequest) { in.Amount = decimal.Zero }},
		{"más de dos decimales", func(in *dto.CreateExpenseRequest) { in.Amount = dec(t, "1.999") }},
		{"fecha ilegible", func(in *dto.CreateExpenseRequest) { in.Date = "10/03/2025" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := uc.Create(p, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestExpenseCreate_FechaRFC3339(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, category := newExpenseUC(p)

	_, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "EUR",
		Amount:   dec(t, "99.99"),
		Date:     "2025-03-10T15:04:05Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, repo.expenses[0].Date.Hour())
}

// ──────────────────────────────────────────────────────────────────────────────
// FindAll — filtros y rango de fechas
// ──────────────────────────────────────────────────────────────────────────────

func TestExpenseFindAll_RangoInvertido(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, _ := newExpenseUC(p)

	_, err := uc.FindAll(p, dto.FetchExpensesRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-01",
	}, &query.Pagination{Limit: 50}, fullExpenseProjection(t))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// endDate incluye el día completo: la cota superior es la medianoche del día
// siguiente.
func TestExpenseFindAll_EndDateIncluyeElDia(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, _ := newExpenseUC(p)

	_, err := uc.FindAll(p, dto.FetchExpensesRequest{
		StartDate: "2025-01-15",
		EndDate:   "2025-02-01",
	}, &query.Pagination{Limit: 50}, fullExpenseProjection(t))
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.DateFrom)
	require.NotNil(t, repo.lastFilter.DateTo)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), *repo.lastFilter.DateFrom)
	assert.Equal(t, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), *repo.lastFilter.DateTo)
}

func TestExpenseFindAll_AmountInvalido(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, _ := newExpenseUC(p)

	_, err := uc.FindAll(p, dto.FetchExpensesRequest{Amount: "doce"},
		&query.Pagination{Limit: 50}, fullExpenseProjection(t))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpenseFindAll_FiltroCategoriaInvalida(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, _ := newExpenseUC(p)

	_, err := uc.FindAll(p, dto.FetchExpensesRequest{CategoryID: "no-es-uuid"},
		&query.Pagination{Limit: 50}, fullExpenseProjection(t))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si la proyección pide category el repositorio puebla el nombre y la vista
// lo expone como objeto {id, name}.
func TestExpenseFindAll_CategoriaPoblada(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, category := newExpenseUC(p)

	_, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "USD",
		Amount:   dec(t, "12.50"),
		Date:     "2025-03-10",
	})
	require.NoError(t, err)

	out, err := uc.FindAll(p, dto.FetchExpensesRequest{}, &query.Pagination{Limit: 50}, fullExpenseProjection(t))
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	cat, ok := out.Items[0]["category"].(map[string]any)
	require.True(t, ok, "category debe ser un objeto cuando el nombre viene poblado")
	assert.Equal(t, category.ID, cat["id"])
	assert.Equal(t, "Comida", cat["name"])
}

func TestExpenseFindAll_ProyeccionSinCategoria_NoHaceJoin(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, _ := newExpenseUC(p)

	sel, err := query.ResolveProjection([]string{"amount", "date"}, dto.ExpenseFields)
	require.NoError(t, err)

	_, err = uc.FindAll(p, dto.FetchExpensesRequest{}, &query.Pagination{Limit: 50}, sel)
	require.NoError(t, err)
	assert.False(t, repo.lastFilter.WithCategory)
}

// ──────────────────────────────────────────────────────────────────────────────
// FindOne / Update / Remove — alcance del dueño
// ──────────────────────────────────────────────────────────────────────────────

func TestExpenseFindOne_DeOtroUsuario_NotFound(t *testing.T) {
	p := principal(entity.RoleUser)
	intruder := principal(entity.RoleUser)
	uc, _, category := newExpenseUC(p)

	out, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "USD",
		Amount:   dec(t, "10"),
		Date:     "2025-03-10",
	})
	require.NoError(t, err)

	_, err = uc.FindOne(intruder, out["id"].(string), fullExpenseProjection(t))
	assert.ErrorIs(t, err, domain.ErrNotFound, "el gasto ajeno responde 404, nunca 403")
}

func TestExpenseFindOne_IDInvalido(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, _, _ := newExpenseUC(p)

	_, err := uc.FindOne(p, "123", fullExpenseProjection(t))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpenseUpdate_SoloCamposPresentes(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, category := newExpenseUC(p)

	out, err := uc.Create(p, dto.CreateExpenseRequest{
		Category:    category.ID,
		Currency:    "USD",
		Amount:      dec(t, "10"),
		Date:        "2025-03-10",
		Description: "almuerzo",
	})
	require.NoError(t, err)
	id := out["id"].(string)

	newAmount := dec(t, "15.75")
	_, err = uc.Update(p, id, dto.UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)

	got := repo.expenses[0]
	assert.True(t, got.Amount.Equal(newAmount))
	assert.Equal(t, "USD", got.Currency, "los campos ausentes no cambian")
	assert.Equal(t, "almuerzo", got.Description)
	assert.Equal(t, category.ID, got.CategoryID)
}

func TestExpenseUpdate_CategoriaInvisible_Precondicion(t *testing.T) {
	p := principal(entity.RoleUser)
	other := principal(entity.RoleUser)
	uc, _, category := newExpenseUC(p)

	out, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "USD",
		Amount:   dec(t, "10"),
		Date:     "2025-03-10",
	})
	require.NoError(t, err)

	ajena := seedCategory("Ajena", entity.CategoryTypeUser, other.ID, false).ID
	_, err = uc.Update(p, out["id"].(string), dto.UpdateExpenseRequest{Category: &ajena})
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
}

func TestExpenseRemove_BorradoFisico(t *testing.T) {
	p := principal(entity.RoleUser)
	uc, repo, category := newExpenseUC(p)

	out, err := uc.Create(p, dto.CreateExpenseRequest{
		Category: category.ID,
		Currency: "USD",
		Amount:   dec(t, "10"),
		Date:     "2025-03-10",
	})
	require.NoError(t, err)
	id := out["id"].(string)

	require.NoError(t, uc.Remove(p, id))
	assert.Empty(t, repo.expenses, "el borrado de gastos no deja fila")

	err = uc.Remove(p, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
