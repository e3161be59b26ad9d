package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"brightideas/pkg/apperr"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation: http.StatusBadRequest,
	apperr.KindNotFound:   http.StatusNotFound,
	apperr.KindExternal:   http.StatusBadGateway,
	apperr.KindPersist:    http.StatusInternalServerError,
}

// ErrorHandler renders handler errors as {"error","kind"}. Errors outside
// the apperr taxonomy are logged and reported as a generic 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := render(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		log.Printf("[http] write error response: %v", werr)
	}
}

func render(err error) (int, map[string]string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		kind := apperr.KindValidation
		switch {
		case he.Code == http.StatusNotFound:
			kind = apperr.KindNotFound
		case he.Code >= http.StatusInternalServerError:
			kind = apperr.KindPersist
		}
		return he.Code, map[string]string{"error": msg, "kind": string(kind)}
	}
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status, kind = http.StatusInternalServerError, apperr.KindPersist
	}
	return status, map[string]string{"error": apperr.Message(err), "kind": string(kind)}
}
