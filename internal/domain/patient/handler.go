package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/renalward/internal/platform/apperr"
)

type Handler struct {
	reg *Registry
}

func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

// RegisterRoutes mounts the registry's own endpoints. Registration, views and
// status changes are served by the ward handler because they span patient
// and admission.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.DELETE("/patients/:phn", h.DeletePatient)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	if err := h.reg.Delete(c.Request().Context(), c.Param("phn")); err != nil {
		return apperr.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
