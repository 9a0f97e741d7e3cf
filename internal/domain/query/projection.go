package query

import (
	"fmt"
	"strings"

	"github.com/tu-usuario/gastos-api/internal/domain"
)

// Projection es el mapa de inclusión de campos ({campo: 1}) que limita qué
// atributos devuelve una consulta. Solo contiene campos de la allow-list.
type Projection map[string]int

// Has indica si el campo fue seleccionado.
func (p Projection) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// ResolveProjection normaliza y valida la selección de campos pedida por el
// llamador contra la allow-list del recurso. Acepta valores repetidos o una
// lista separada por comas, recorta espacios y rechaza con un mensaje que
// nombra el campo tanto los desconocidos como los duplicados. Sin selección,
// incluye el conjunto por defecto completo del recurso.
func ResolveProjection(raw []string, allowed []string) (Projection, error) {
	fields := make([]string, 0, len(raw))
	for _, value := range raw {
		for _, f := range strings.Split(value, ",") {
			f = strings.TrimSpace(f)
			if f != "" {
				fields = append(fields, f)
			}
		}
	}

	if len(fields) == 0 {
		fields = allowed
	}

	projection := make(Projection, len(fields))
	for _, f := range fields {
		if !contains(allowed, f) {
			return nil, fmt.Errorf("%w: campo select inválido '%s', solo se permite [%s]",
				domain.ErrInvalidInput, f, strings.Join(allowed, ", "))
		}
		if projection.Has(f) {
			return nil, fmt.Errorf("%w: campo select duplicado '%s'", domain.ErrInvalidInput, f)
		}
		projection[f] = 1
	}
	return projection, nil
}
