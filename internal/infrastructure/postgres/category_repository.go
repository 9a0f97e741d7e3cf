package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = "id, name, type, COALESCE(user_id, ''), deleted, created_at, updated_at"

// Mapa clave de orden -> columna. Solo pasan claves ya validadas por el
// parser de paginación; cualquier otra cae al orden por defecto.
var categorySortColumns = map[string]string{
	"name":      "name",
	"type":      "type",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría. Los índices únicos parciales
// (default por nombre, usuario por nombre+dueño) traducen la carrera de
// doble creación a ErrConflict.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, type, user_id, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, category.Type, category.UserID,
		category.Deleted, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría no borrada por ID.
func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND NOT deleted`
	return r.scanOne(query, id)
}

// GetByNameAndOwner obtiene la categoría de usuario por nombre y dueño,
// incluyendo borradas (base del create-or-restore). Pueden coexistir una fila
// viva y una borrada con el mismo nombre; el ORDER BY garantiza que la viva
// gana y el duplicado se detecta como conflicto, nunca como restauración.
func (r *CategoryRepo) GetByNameAndOwner(name, userID string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories WHERE name = $1 AND type = 'user' AND user_id = $2
		ORDER BY deleted LIMIT 1`
	return r.scanOne(query, name, userID)
}

// GetDefaultByName obtiene la categoría default por nombre, incluyendo
// borradas. Igual que GetByNameAndOwner, la fila viva gana.
func (r *CategoryRepo) GetDefaultByName(name string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories WHERE name = $1 AND type = 'default'
		ORDER BY deleted LIMIT 1`
	return r.scanOne(query, name)
}

// GetVisibleByID obtiene una categoría visible para el usuario: default o
// propia, nunca borrada.
func (r *CategoryRepo) GetVisibleByID(id, userID string) (*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1 AND (type = 'default' OR user_id = $2) AND NOT deleted`
	return r.scanOne(query, id, userID)
}

// List lista las categorías visibles para el usuario con filtros y paginación.
// No filtra borradas; ese es el contrato del listado.
func (r *CategoryRepo) List(userID string, filter repository.CategoryFilter, page *query.Pagination) ([]*entity.Category, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + categoryColumns + ` FROM categories WHERE (type = 'default' OR user_id = $1)`)
	args := []any{userID}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		fmt.Fprintf(&sb, " AND name ILIKE $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}

	sb.WriteString(" ORDER BY " + orderByClause(page.SortBy, categorySortColumns, "created_at DESC"))
	args = append(args, page.Limit, page.Skip())
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.UserID, &c.Deleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza nombre, borrado lógico y updated_at de una categoría.
func (r *CategoryRepo) Update(category *entity.Category) error {
	query := `
		UPDATE categories SET name = $2, deleted = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.Name, category.Deleted, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) scanOne(query string, args ...any) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&c.ID, &c.Name, &c.Type, &c.UserID, &c.Deleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}
