package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// ExpenseFilter filtros opcionales del listado de gastos. DateFrom/DateTo
// llegan ya resueltos por el servicio (DateTo incluye el día completo).
type ExpenseFilter struct {
	CategoryID   string
	Currency     string
	Description  string // substring, case-insensitive
	Amount       *decimal.Decimal
	DateFrom     *time.Time
	DateTo       *time.Time
	WithCategory bool // poblar el nombre de la categoría (join)
}

// ExpenseRepository define el puerto de persistencia para Expense (DIP).
// Todas las lecturas y escrituras van acotadas al dueño; el borrado es físico.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByIDAndOwner(id, userID string) (*entity.Expense, error)
	List(userID string, filter ExpenseFilter, page *query.Pagination) ([]*entity.Expense, error)
	Exists(id, userID string) (bool, error)
	Update(expense *entity.Expense) error
	Delete(id string) error
}
