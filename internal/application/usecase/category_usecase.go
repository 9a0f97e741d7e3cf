package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/entity"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
	"github.com/tu-usuario/gastos-api/internal/domain/repository"
)

// CategoryTxRunner ejecuta fn con un repositorio atado a una transacción.
// El check-duplicado + insert/restore corre completo dentro de ella; el
// índice único parcial de la tabla rompe el empate entre creates concurrentes
// y la violación llega como ErrConflict.
type CategoryTxRunner interface {
	Run(fn func(repo repository.CategoryRepository) error) error
}

// CategoryUseCase CRUD de categorías con borrado lógico, restauración al
// recrear y reglas de visibilidad default ∨ dueño.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	tx   CategoryTxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, tx CategoryTxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, tx: tx}
}

// Create crea una categoría del usuario. Si ya existe una viva con el mismo
// (nombre, dueño) es conflicto; si existe pero borrada, se restaura en el
// lugar en vez de duplicar la fila.
func (uc *CategoryUseCase) Create(p *entity.Principal, in dto.CreateCategoryRequest) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	var out *entity.Category
	err := uc.tx.Run(func(repo repository.CategoryRepository) error {
		existing, err := repo.GetByNameAndOwner(name, p.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.Deleted {
				return domain.ErrConflict
			}
			existing.Deleted = false
			existing.UpdatedAt = time.Now()
			if err := repo.Update(existing); err != nil {
				return err
			}
			out = existing
			return nil
		}
		now := time.Now()
		category := &entity.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Type:      entity.CategoryTypeUser,
			UserID:    p.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(category); err != nil {
			return err
		}
		out = category
		return nil
	})
	if err != nil {
		if err != domain.ErrConflict {
			log.Error().Err(err).Str("user_id", p.ID).Str("name", name).Msg("error creando categoría")
		}
		return nil, err
	}
	return createdCategoryView(out), nil
}

// CreateDefault crea una categoría default (compartida, sin dueño) con la
// misma semántica de conflicto/restauración. El acceso admin se garantiza en
// la ruta.
func (uc *CategoryUseCase) CreateDefault(in dto.CreateCategoryRequest) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	var out *entity.Category
	err := uc.tx.Run(func(repo repository.CategoryRepository) error {
		existing, err := repo.GetDefaultByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.Deleted {
				return domain.ErrConflict
			}
			existing.Deleted = false
			existing.UpdatedAt = time.Now()
			if err := repo.Update(existing); err != nil {
				return err
			}
			out = existing
			return nil
		}
		now := time.Now()
		category := &entity.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Type:      entity.CategoryTypeDefault,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(category); err != nil {
			return err
		}
		out = category
		return nil
	})
	if err != nil {
		if err != domain.ErrConflict {
			log.Error().Err(err).Str("name", name).Msg("error creando categoría default")
		}
		return nil, err
	}
	return createdCategoryView(out), nil
}

// FindAll lista las categorías visibles para el principal (las suyas más las
// default), con filtros opcionales de nombre y tipo, proyectadas y paginadas.
func (uc *CategoryUseCase) FindAll(p *entity.Principal, filter repository.CategoryFilter, page *query.Pagination, sel query.Projection) (*dto.ListResponse, error) {
	if filter.Type != "" && filter.Type != entity.CategoryTypeDefault && filter.Type != entity.CategoryTypeUser {
		return nil, fmt.Errorf("%w: tipo de categoría inválido '%s'", domain.ErrInvalidInput, filter.Type)
	}
	categories, err := uc.repo.List(p.ID, filter, page)
	if err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("error listando categorías")
		return nil, err
	}
	items := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		items = append(items, dto.CategoryView(c, sel))
	}
	return &dto.ListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Skip: page.Skip()},
	}, nil
}

// FindOne devuelve una categoría visible y no borrada, proyectada.
func (uc *CategoryUseCase) FindOne(p *entity.Principal, id string, sel query.Projection) (map[string]any, error) {
	category, err := uc.VisibleCategory(p, id)
	if err != nil {
		return nil, err
	}
	return dto.CategoryView(category, sel), nil
}

// VisibleCategory resuelve una categoría aplicando el filtro de visibilidad.
// Inexistente e invisible colapsan en ErrNotFound a propósito: el llamador no
// distingue si la categoría de otro usuario existe.
func (uc *CategoryUseCase) VisibleCategory(p *entity.Principal, id string) (*entity.Category, error) {
	if err := validID(id, "categoría"); err != nil {
		return nil, err
	}
	category, err := uc.repo.GetVisibleByID(id, p.ID)
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("error consultando categoría")
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// Update renombra una categoría. La carga es por id sin filtro de
// visibilidad; después se aplican las reglas de mutación: default solo admin,
// user solo su dueño.
func (uc *CategoryUseCase) Update(p *entity.Principal, id string, in dto.UpdateCategoryRequest) (map[string]any, error) {
	category, err := uc.loadForMutation(p, id, "modificar")
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(in.Name)
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: ya existe una categoría con el nombre '%s'", domain.ErrConflict, category.Name)
		}
		log.Error().Err(err).Str("category_id", id).Msg("error actualizando categoría")
		return nil, err
	}
	sel, _ := query.ResolveProjection(nil, dto.CategoryFields)
	return dto.CategoryView(category, sel), nil
}

// Remove marca la categoría como borrada; la fila se conserva para poder
// restaurarla si se recrea el mismo (nombre, dueño).
func (uc *CategoryUseCase) Remove(p *entity.Principal, id string) error {
	category, err := uc.loadForMutation(p, id, "eliminar")
	if err != nil {
		return err
	}
	category.Deleted = true
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(category); err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("error eliminando categoría")
		return err
	}
	return nil
}

func (uc *CategoryUseCase) loadForMutation(p *entity.Principal, id, action string) (*entity.Category, error) {
	if err := validID(id, "categoría"); err != nil {
		return nil, err
	}
	category, err := uc.repo.GetByID(id)
	if err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("error cargando categoría")
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if category.Type == entity.CategoryTypeDefault && p.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: solo un admin puede %s una categoría default", domain.ErrForbidden, action)
	}
	if category.Type == entity.CategoryTypeUser && p.ID != category.UserID {
		return nil, fmt.Errorf("%w: no tienes permiso para %s esta categoría", domain.ErrForbidden, action)
	}
	return category, nil
}

// validID rechaza ids que no sean UUID antes de tocar la base; sin este
// filtro un id malformado revienta en la columna uuid como error interno en
// vez de como entrada inválida.
func validID(id, field string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: id de %s inválido '%s'", domain.ErrInvalidInput, field, id)
	}
	return nil
}

// createdCategoryView es la respuesta mínima del create: id, nombre, tipo y
// dueño cuando lo hay.
func createdCategoryView(c *entity.Category) map[string]any {
	view := map[string]any{"id": c.ID, "name": c.Name, "type": c.Type}
	if c.UserID != "" {
		view["user"] = c.UserID
	}
	return view
}
