package dto

import (
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// CategoryFields allow-list de proyección para Category. También es el
// conjunto devuelto cuando el llamador no pide select.
var CategoryFields = []string{"type", "name", "createdAt", "updatedAt", "user"}

// CategorySortableKeys claves admitidas en sortBy para listados de categorías.
var CategorySortableKeys = []string{"type", "name", "createdAt", "updatedAt"}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// UpdateCategoryRequest entrada para renombrar una categoría.
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// CategoryView serializa la categoría aplicando la proyección. El id se
// incluye siempre; el resto de campos solo si fueron seleccionados.
func CategoryView(c *entity.Category, sel query.Projection) map[string]any {
	if c == nil {
		return nil
	}
	view := map[string]any{"id": c.ID}
	if sel.Has("name") {
		view["name"] = c.Name
	}
	if sel.Has("type") {
		view["type"] = c.Type
	}
	if sel.Has("user") && c.UserID != "" {
		view["user"] = c.UserID
	}
	if sel.Has("createdAt") {
		view["createdAt"] = c.CreatedAt
	}
	if sel.Has("updatedAt") {
		view["updatedAt"] = c.UpdatedAt
	}
	return view
}
