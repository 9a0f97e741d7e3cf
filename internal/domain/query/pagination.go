// Package query: lógica pura de paginación, orden y proyección de listados.
// No conoce HTTP ni la base de datos; el middleware y los repositorios
// consumen sus resultados ya validados.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/tu-usuario/gastos-api/internal/domain"
)

// Direcciones de orden admitidas en sortBy.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortKey es un par (campo, dirección) ya validado contra la allow-list.
type SortKey struct {
	Field string
	Order string // asc | desc
}

// Options configura el parser por recurso. Los ceros toman los defaults
// documentados: limit 50, offset 0, page 1, maxLimit 100, orden createdAt:desc.
type Options struct {
	DefaultLimit  int
	DefaultOffset int
	DefaultPage   int
	MaxLimit      int
	SortableKeys  []string
	DefaultSort   []SortKey
}

// Pagination es el descriptor derivado por request, nunca persistido.
// Page ya viene convertido a cantidad de filas a saltar: limit*(page-1).
type Pagination struct {
	Limit  int
	Offset int
	Page   int
	SortBy []SortKey
}

// Skip devuelve el salto efectivo a aplicar en la consulta: el derivado de
// page cuando es positivo, si no el offset. Los repositorios consumen
// siempre este valor.
func (p *Pagination) Skip() int {
	if p.Page > 0 {
		return p.Page
	}
	return p.Offset
}

var sortByFormat = regexp.MustCompile(`^\w+:(desc|asc)$`)

// Parse valida los parámetros crudos limit/offset/page/sortBy y produce el
// descriptor acotado. Cualquier entrada sortBy con formato inválido o clave
// fuera de la allow-list invalida el lote completo con un mensaje que
// identifica la entrada ofensora.
func Parse(values url.Values, opts Options) (*Pagination, error) {
	limit := parseIntOr(values.Get("limit"), defaultInt(opts.DefaultLimit, 50))
	offset := parseIntOr(values.Get("offset"), opts.DefaultOffset)
	page := parseIntOr(values.Get("page"), defaultInt(opts.DefaultPage, 1))

	var sortBy []SortKey
	rawSortBy := values["sortBy"]
	if len(rawSortBy) > 0 {
		for _, item := range rawSortBy {
			if !sortByFormat.MatchString(item) {
				return nil, fmt.Errorf("%w: opción sortBy inválida '%s'", domain.ErrInvalidInput, item)
			}
			key, order, _ := strings.Cut(item, ":")
			if !contains(opts.SortableKeys, key) {
				return nil, fmt.Errorf("%w: clave sortBy inválida '%s', solo se permite [%s]",
					domain.ErrInvalidInput, item, strings.Join(opts.SortableKeys, ", "))
			}
			sortBy = append(sortBy, SortKey{Field: key, Order: order})
		}
	} else {
		sortBy = opts.DefaultSort
		if len(sortBy) == 0 {
			sortBy = []SortKey{{Field: "createdAt", Order: SortDesc}}
		}
	}

	// El salto por página se calcula con el limit pedido, antes del clamp.
	page = limit * (page - 1)
	if offset <= 0 {
		offset = 0
	}
	if page <= 0 {
		page = 0
	}

	maxLimit := defaultInt(opts.MaxLimit, 100)
	if limit > maxLimit {
		limit = maxLimit
	}

	return &Pagination{Limit: limit, Offset: offset, Page: page, SortBy: sortBy}, nil
}

func parseIntOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
