package repository

import (
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// CategoryFilter filtros opcionales del listado de categorías.
type CategoryFilter struct {
	Name string // substring, case-insensitive
	Type string // default | user
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
//   - GetByID excluye borradas (es la carga previa de update/remove).
//   - GetByNameAndOwner y GetDefaultByName incluyen borradas: son la base del
//     create-or-restore. Si coexisten una fila viva y una borrada con el
//     mismo nombre, devuelven la viva.
//   - GetVisibleByID aplica el filtro de visibilidad (default ∨ dueño) y
//     excluye borradas.
//   - List aplica solo visibilidad; el listado no filtra borradas, ese es su
//     contrato.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByNameAndOwner(name, userID string) (*entity.Category, error)
	GetDefaultByName(name string) (*entity.Category, error)
	GetVisibleByID(id, userID string) (*entity.Category, error)
	List(userID string, filter CategoryFilter, page *query.Pagination) ([]*entity.Category, error)
	Update(category *entity.Category) error
}
