package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/gastos-api/internal/application/dto"
	"github.com/tu-usuario/gastos-api/internal/domain"
	"github.com/tu-usuario/gastos-api/internal/domain/query"
)

// LocalPagination key del descriptor de paginación en c.Locals.
const LocalPagination = "pagination"

// PaginationMiddleware valida limit/offset/page/sortBy contra las opciones
// del recurso, deja el descriptor en c.Locals y quita las cuatro claves
// crudas de la query para que los filtros del handler no las vean.
func PaginationMiddleware(opts query.Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := query.Parse(queryValues(c), opts)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		for _, key := range []string{"limit", "offset", "page", "sortBy"} {
			c.Request().URI().QueryArgs().Del(key)
		}
		c.Locals(LocalPagination, page)
		return c.Next()
	}
}

// GetPagination devuelve el descriptor del contexto (después del middleware
// de paginación).
func GetPagination(c *fiber.Ctx) *query.Pagination {
	v := c.Locals(LocalPagination)
	if v == nil {
		return nil
	}
	p, _ := v.(*query.Pagination)
	return p
}

// queryValues convierte la query string cruda en url.Values conservando
// claves repetidas (fasthttp las colapsa en sus helpers).
func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return values
}

// selectedFields resuelve la proyección del parámetro select contra la
// allow-list del recurso.
func selectedFields(c *fiber.Ctx, allowed []string) (query.Projection, error) {
	return query.ResolveProjection(queryValues(c)["select"], allowed)
}
