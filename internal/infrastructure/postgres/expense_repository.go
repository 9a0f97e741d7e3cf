package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const expenseColumns = "e.id, e.user_id, e.category_id, e.currency, e.amount, COALESCE(e.description, ''), e.date, e.created_at, e.updated_at"

var expenseSortColumns = map[string]string{
	"date":      "e.date",
	"amount":    "e.amount",
	"category":  "e.category_id",
	"currency":  "e.currency",
	"createdAt": "e.created_at",
	"updatedAt": "e.updated_at",
}

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de persistencia para gastos. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un nuevo gasto.
func (r *ExpenseRepo) Create(expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, user_id, category_id, currency, amount, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.UserID, expense.CategoryID, expense.Currency,
		expense.Amount, expense.Description, expense.Date, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByIDAndOwner obtiene un gasto por ID acotado al dueño, con el nombre de
// la categoría poblado.
func (r *ExpenseRepo) GetByIDAndOwner(id, userID string) (*entity.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `, COALESCE(c.name, '')
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1 AND e.user_id = $2`
	var e entity.Expense
	err := r.q.QueryRow(context.Background(), query, id, userID).Scan(
		&e.ID, &e.UserID, &e.CategoryID, &e.Currency, &e.Amount,
		&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt, &e.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// List lista los gastos del dueño con filtros opcionales y paginación.
// El join con categorías solo se hace cuando la proyección pide el nombre.
func (r *ExpenseRepo) List(userID string, filter repository.ExpenseFilter, page *query.Pagination) ([]*entity.Expense, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + expenseColumns)
	if filter.WithCategory {
		sb.WriteString(`, COALESCE(c.name, '')`)
	}
	sb.WriteString(` FROM expenses e`)
	if filter.WithCategory {
		sb.WriteString(` LEFT JOIN categories c ON c.id = e.category_id`)
	}
	sb.WriteString(` WHERE e.user_id = $1`)
	args := []any{userID}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		fmt.Fprintf(&sb, " AND e.category_id = $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		fmt.Fprintf(&sb, " AND e.currency = $%d", len(args))
	}
	if filter.Description != "" {
		args = append(args, "%"+filter.Description+"%")
		fmt.Fprintf(&sb, " AND e.description ILIKE $%d", len(args))
	}
	if filter.Amount != nil {
		args = append(args, *filter.Amount)
		fmt.Fprintf(&sb, " AND e.amount = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		fmt.Fprintf(&sb, " AND e.date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		fmt.Fprintf(&sb, " AND e.date <= $%d", len(args))
	}

	sb.WriteString(" ORDER BY " + orderByClause(page.SortBy, expenseSortColumns, "e.date DESC"))
	args = append(args, page.Limit, page.Skip())
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		dest := []any{&e.ID, &e.UserID, &e.CategoryID, &e.Currency, &e.Amount,
			&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt}
		if filter.WithCategory {
			dest = append(dest, &e.CategoryName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Exists indica si el gasto existe y pertenece al dueño.
func (r *ExpenseRepo) Exists(id, userID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists expense: %w", err)
	}
	return exists, nil
}

// Update actualiza los campos mutables de un gasto.
func (r *ExpenseRepo) Update(expense *entity.Expense) error {
	query := `
		UPDATE expenses
		SET category_id = $2, currency = $3, amount = $4, description = NULLIF($5, ''), date = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		expense.ID, expense.CategoryID, expense.Currency, expense.Amount,
		expense.Description, expense.Date, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// Delete elimina un gasto por ID. El borrado de gastos es físico.
func (r *ExpenseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
