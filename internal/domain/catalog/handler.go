package catalog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Handler serves specialty lookups.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/specialties", h.Search)
}

// Search returns specialty suggestions for a query term. Without a term the
// full catalog is returned so registration forms can populate pickers.
func (h *Handler) Search(c echo.Context) error {
	term := c.QueryParam("q")

	var selected []string
	if raw := c.QueryParam("selected"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				selected = append(selected, s)
			}
		}
	}

	var names []string
	if term == "" && len(selected) == 0 {
		names = h.catalog.All()
	} else {
		names = h.catalog.Search(term, selected)
	}
	if names == nil {
		names = []string{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"specialties": names,
		"total":       len(names),
	})
}
