package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/gastos-api/internal/domain/query"
	apphttp "github.com/tu-usuario/gastos-api/internal/interfaces/http"
)

// buildPaginatedApp monta un handler que devuelve el descriptor dejado por el
// middleware más la query restante, para inspeccionar ambos.
func buildPaginatedApp(opts query.Options) *fiber.App {
	app := fiber.New()
	app.Get("/items", apphttp.PaginationMiddleware(opts), func(c *fiber.Ctx) error {
		page := apphttp.GetPagination(c)
		return c.JSON(fiber.Map{
			"limit":     page.Limit,
			"skip":      page.Skip(),
			"remaining": string(c.Request().URI().QueryString()),
		})
	})
	return app
}

func getItems(t *testing.T, app *fiber.App, target string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	return resp, body
}

func TestPaginationMiddleware_Defaults(t *testing.T) {
	app := buildPaginatedApp(query.Options{SortableKeys: []string{"name", "createdAt"}})
	resp, body := getItems(t, app, "/items")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 50, body["limit"])
	assert.EqualValues(t, 0, body["skip"])
}

func TestPaginationMiddleware_PageDerivaSkip(t *testing.T) {
	app := buildPaginatedApp(query.Options{SortableKeys: []string{"name"}})
	resp, body := getItems(t, app, "/items?limit=10&page=3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, body["limit"])
	assert.EqualValues(t, 20, body["skip"], "page=3 con limit=10 salta 20 filas")
}

// Las cuatro claves de paginación se quitan de la query; los filtros del
// recurso quedan intactos para el handler.
func TestPaginationMiddleware_LimpiaClavesCrudas(t *testing.T) {
	app := buildPaginatedApp(query.Options{SortableKeys: []string{"name"}})
	resp, body := getItems(t, app, "/items?limit=10&page=2&sortBy=name:asc&type=user")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	remaining, _ := body["remaining"].(string)
	assert.NotContains(t, remaining, "limit")
	assert.NotContains(t, remaining, "page")
	assert.NotContains(t, remaining, "sortBy")
	assert.Contains(t, remaining, "type=user")
}

func TestPaginationMiddleware_SortByInvalido_Retorna400(t *testing.T) {
	app := buildPaginatedApp(query.Options{SortableKeys: []string{"name"}})
	req := httptest.NewRequest(http.MethodGet, "/items?sortBy=amount:asc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "amount:asc",
		"el error debe nombrar la entrada sortBy ofensora")
}

func TestPaginationMiddleware_FormatoSortByInvalido_Retorna400(t *testing.T) {
	app := buildPaginatedApp(query.Options{SortableKeys: []string{"name"}})
	req := httptest.NewRequest(http.MethodGet, "/items?sortBy=name-desc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
