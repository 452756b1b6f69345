package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/spectriclabs/heka-data-service/internal/datasource"
	"github.com/spectriclabs/heka-data-service/internal/heka"
)

// StatusCode maps an error to the HTTP status reported for it.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, datasource.ErrUnknownLocation), errors.Is(err, datasource.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrBadPath), errors.Is(err, heka.ErrPrecondition):
		return http.StatusBadRequest
	case errors.Is(err, heka.ErrUnsupportedVersion),
		errors.Is(err, heka.ErrUnsupportedVariant),
		errors.Is(err, heka.ErrFormatViolation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func httpError(err error) error {
	return echo.NewHTTPError(StatusCode(err), err.Error()).SetInternal(err)
}
