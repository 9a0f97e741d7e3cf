package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ExpenseUseCase CRUD de gastos, siempre acotado al dueño. La categoría
// referenciada se resuelve a través del find con visibilidad del caso de uso
// de categorías: un usuario no puede colgar gastos de una categoría que no ve.
type ExpenseUseCase struct {
	repo       repository.ExpenseRepository
	categories *CategoryUseCase
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, categories *CategoryUseCase) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, categories: categories}
}

// Create registra un gasto del principal. Una categoría inexistente o
// invisible falla con precondición (no not-found): el id era resoluble pero
// la referencia no es usable para este usuario.
func (uc *ExpenseUseCase) Create(p *entity.Principal, in dto.CreateExpenseRequest) (map[string]any, error) {
	category, err := uc.categories.VisibleCategory(p, in.Category)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: la categoría no existe o no es visible", domain.ErrPreconditionFailed)
		}
		return nil, err
	}

	code, err := validCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date, "date")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &entity.Expense{
		ID:          uuid.New().String(),
		UserID:      p.ID,
		CategoryID:  category.ID,
		Currency:    code,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(expense); err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("error registrando gasto")
		return nil, err
	}

	sel, _ := query.ResolveProjection(nil, dto.ExpenseFields)
	return dto.ExpenseView(expense, sel), nil
}

// FindAll lista los gastos del principal con filtros opcionales de igualdad
// (categoría, monto, moneda), substring de descripción y rango de fechas.
// Si la proyección incluye category, el repositorio puebla el nombre.
func (uc *ExpenseUseCase) FindAll(p *entity.Principal, in dto.FetchExpensesRequest, page *query.Pagination, sel query.Projection) (*dto.ListResponse, error) {
	filter, err := uc.buildFilter(in)
	if err != nil {
		return nil, err
	}
	filter.WithCategory = sel.Has("category")

	expenses, err := uc.repo.List(p.ID, filter, page)
	if err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("error listando gastos")
		return nil, err
	}
	items := make([]map[string]any, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, dto.ExpenseView(e, sel))
	}
	return &dto.ListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Skip: page.Skip()},
	}, nil
}

// FindOne devuelve un gasto del principal, proyectado. La consulta acotada al
// dueño hace que el gasto de otro usuario responda 404, nunca 403.
func (uc *ExpenseUseCase) FindOne(p *entity.Principal, id string, sel query.Projection) (map[string]any, error) {
	if err := validID(id, "gasto"); err != nil {
		return nil, err
	}
	expense, err := uc.repo.GetByIDAndOwner(id, p.ID)
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("error consultando gasto")
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ExpenseView(expense, sel), nil
}

// Update aplica solo los campos presentes y distintos del valor actual. Si la
// categoría cambia se re-valida su visibilidad igual que en el create.
func (uc *ExpenseUseCase) Update(p *entity.Principal, id string, in dto.UpdateExpenseRequest) (map[string]any, error) {
	if err := validID(id, "gasto"); err != nil {
		return nil, err
	}
	expense, err := uc.repo.GetByIDAndOwner(id, p.ID)
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("error cargando gasto")
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}

	if in.Category != nil && *in.Category != expense.CategoryID {
		category, err := uc.categories.VisibleCategory(p, *in.Category)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: la categoría no es válida", domain.ErrPreconditionFailed)
			}
			return nil, err
		}
		expense.CategoryID = category.ID
		expense.CategoryName = ""
	}
	if in.Currency != nil {
		code, err := validCurrency(*in.Currency)
		if err != nil {
			return nil, err
		}
		if code != expense.Currency {
			expense.Currency = code
		}
	}
	if in.Amount != nil {
		if err := validAmount(*in.Amount); err != nil {
			return nil, err
		}
		if !in.Amount.Equal(expense.Amount) {
			expense.Amount = *in.Amount
		}
	}
	if in.Date != nil {
		date, err := parseDate(*in.Date, "date")
		if err != nil {
			return nil, err
		}
		if !date.Equal(expense.Date) {
			expense.Date = date
		}
	}
	if in.Description != nil && *in.Description != expense.Description {
		expense.Description = *in.Description
	}

	expense.UpdatedAt = time.Now()
	if err := uc.repo.Update(expense); err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("error actualizando gasto")
		return nil, err
	}

	sel, _ := query.ResolveProjection(nil, dto.ExpenseFields)
	return dto.ExpenseView(expense, sel), nil
}

// Remove verifica la existencia acotada al dueño y borra físicamente.
func (uc *ExpenseUseCase) Remove(p *entity.Principal, id string) error {
	if err := validID(id, "gasto"); err != nil {
		return err
	}
	exists, err := uc.repo.Exists(id, p.ID)
	if err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("error verificando gasto")
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		log.Error().Err(err).Str("expense_id", id).Msg("error eliminando gasto")
		return err
	}
	return nil
}

func (uc *ExpenseUseCase) buildFilter(in dto.FetchExpensesRequest) (repository.ExpenseFilter, error) {
	filter := repository.ExpenseFilter{
		CategoryID:  in.CategoryID,
		Description: in.Description,
	}
	if in.CategoryID != "" {
		if err := validID(in.CategoryID, "categoría"); err != nil {
			return filter, err
		}
	}
	if in.Currency != "" {
		code, err := validCurrency(in.Currency)
		if err != nil {
			return filter, err
		}
		filter.Currency = code
	}
	if in.Amount != "" {
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return filter, fmt.Errorf("%w: amount inválido '%s'", domain.ErrInvalidInput, in.Amount)
		}
		filter.Amount = &amount
	}

	var from, to *time.Time
	if in.StartDate != "" {
		d, err := parseDate(in.StartDate, "startDate")
		if err != nil {
			return filter, err
		}
		from = &d
	}
	if in.EndDate != "" {
		d, err := parseDate(in.EndDate, "endDate")
		if err != nil {
			return filter, err
		}
		to = &d
	}
	if from != nil && to != nil && from.After(*to) {
		return filter, fmt.Errorf("%w: startDate no puede ser posterior a endDate", domain.ErrInvalidInput)
	}
	if to != nil {
		// La cota superior incluye el día completo de endDate: medianoche del
		// día siguiente comparada con <= en el repositorio.
		bound := to.AddDate(0, 0, 1)
		to = &bound
	}
	filter.DateFrom = from
	filter.DateTo = to
	return filter, nil
}

// parseDate acepta YYYY-MM-DD o RFC 3339.
func parseDate(raw, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(dateLayout, raw); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s inválida '%s', se espera YYYY-MM-DD", domain.ErrInvalidInput, field, raw)
}

// validCurrency normaliza y valida el código contra ISO 4217.
func validCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, err := currency.ParseISO(normalized); err != nil {
		return "", fmt.Errorf("%w: currency '%s' no es un código ISO 4217", domain.ErrInvalidInput, code)
	}
	return normalized, nil
}

// validAmount exige monto positivo con a lo sumo dos decimales.
func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount debe ser positivo", domain.ErrInvalidInput)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount admite máximo dos decimales", domain.ErrInvalidInput)
	}
	return nil
}
