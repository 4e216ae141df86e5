package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *Registry, *echo.Echo) {
	reg := NewRegistry(newMockRepo())
	return NewHandler(reg), reg, echo.New()
}

func TestHandler_DeletePatient(t *testing.T) {
	h, reg, e := newTestHandler()
	reg.Create(context.Background(), &Patient{PHN: "123", Name: "A"})

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("phn")
	c.SetParamValues("123")

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_Routes(t *testing.T) {
	h, _, e := newTestHandler()
	h.RegisterRoutes(e.Group("/api/v1"))

	for _, r := range e.Routes() {
		if r.Method == http.MethodDelete && r.Path == "/api/v1/patients/:phn" {
			return
		}
	}
	t.Error("DELETE /api/v1/patients/:phn not registered")
}

func TestHandler_DeletePatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("phn")
	c.SetParamValues("404")

	err := h.DeletePatient(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}
