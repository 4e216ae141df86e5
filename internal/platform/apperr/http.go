package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Status maps a kind onto its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts a service error into an echo.HTTPError whose body is
// {"error": <code>, "message": <msg>}. Unclassified errors become a generic
// 500 and keep the cause as the internal error for the logger.
func ToHTTP(err error) *echo.HTTPError {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		he := echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
			"error":   KindInternal.String(),
			"message": "internal server error",
		})
		return he.SetInternal(err)
	}
	he := echo.NewHTTPError(e.Kind.Status(), map[string]string{
		"error":   e.Kind.String(),
		"message": e.Msg,
	})
	if e.Err != nil {
		he = he.SetInternal(e.Err)
	}
	return he
}
