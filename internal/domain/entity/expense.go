package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense representa un gasto de un usuario. Siempre referencia una categoría
// visible para su dueño al momento de crearlo o actualizarlo. A diferencia de
// Category, el borrado es físico.
type Expense struct {
	ID          string
	UserID      string
	CategoryID  string
	Currency    string // código ISO 4217
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// CategoryName se llena solo en lecturas con join a categories; no es columna propia.
	CategoryName string
}
