package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
)

const (
	msgInternal = "internal server error"
	msgNotFound = "Not found."
	msgConflict = "Book is already in your library"
)

type conflictResponse struct {
	Message       string `json:"message"`
	CurrentStatus string `json:"current_status"`
}

// httpError maps service errors onto status codes. Unknown errors are
// logged and answered with a generic 500.
func (h *Handler) httpError(c echo.Context, err error) error {
	var (
		he       *echo.HTTPError
		conflict *errs.ConflictError
	)
	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusBadRequest, conflictResponse{
			Message:       msgConflict,
			CurrentStatus: conflict.CurrentStatus,
		})
	case errs.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, errors.Cause(err).Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrInvalidCredentials.Error())
	case errors.Is(err, errs.ErrRegistrationForbidden):
		return echo.NewHTTPError(http.StatusForbidden, errs.ErrRegistrationForbidden.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	case errors.Is(err, errs.ErrCatalogUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, errs.ErrCatalogUnavailable.Error())
	}
	h.log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, msgInternal)
}

// pathID parses a positive integer path parameter; anything else is 404.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	return id, nil
}
