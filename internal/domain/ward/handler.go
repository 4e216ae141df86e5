package ward

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ehr/renalward/internal/domain/clinical"
	"github.com/ehr/renalward/internal/platform/apperr"
	"github.com/ehr/renalward/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.Register)
	api.GET("/patients", h.GetByPHN)
	api.GET("/patients/debug/:phn", h.Debug)
	api.PUT("/patients/:phn/status", h.UpdateStatus)
	api.GET("/patients/:phn/admissions", h.ListAdmissions)

	adm := api.Group("/patients/:phn/admissions/:admId")
	adm.GET("/progress-notes", h.ListProgressNotes)
	adm.POST("/progress-notes", h.AddProgressNote)
	adm.POST("/discharge-summary", h.Discharge)
	adm.GET("/discharge-summary", h.GetSummary)
	adm.GET("/discharge-summary/pdf", h.SummaryPDF)
	adm.POST("/discharge-summary/archive", h.ArchiveSummary)
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	v, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetByPHN(c echo.Context) error {
	phn := c.QueryParam("phn")
	if phn == "" {
		return apperr.ToHTTP(apperr.Invalid("phn query parameter is required"))
	}
	v, err := h.svc.View(c.Request().Context(), phn)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Debug(c echo.Context) error {
	v, err := h.svc.Debug(c.Request().Context(), c.Param("phn"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("phn"), req.Status)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListAdmissions(c echo.Context) error {
	items, err := h.svc.ListAdmissions(c.Request().Context(), c.Param("phn"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.Apply(c, items))
}

func (h *Handler) AddProgressNote(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	var m clinical.Measurements
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.svc.AddProgressNote(c.Request().Context(), c.Param("phn"), admID, m)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListProgressNotes(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListProgressNotes(c.Request().Context(), c.Param("phn"), admID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.Apply(c, items))
}

func (h *Handler) Discharge(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	var in clinical.SummaryInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ds, err := h.svc.Discharge(c.Request().Context(), c.Param("phn"), admID, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, ds)
}

func (h *Handler) GetSummary(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	ds, err := h.svc.GetSummary(c.Request().Context(), c.Param("phn"), admID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, ds)
}

func (h *Handler) SummaryPDF(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	doc, err := h.svc.SummaryPDF(c.Request().Context(), c.Param("phn"), admID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=discharge-summary.pdf")
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) ArchiveSummary(c echo.Context) error {
	admID, err := admissionParam(c)
	if err != nil {
		return err
	}
	meta, err := h.svc.ArchiveSummary(c.Request().Context(), c.Param("phn"), admID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, meta)
}

func admissionParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("admId"))
	if err != nil {
		return uuid.Nil, apperr.ToHTTP(apperr.Invalid("invalid admission id: %s", c.Param("admId")))
	}
	return id, nil
}
