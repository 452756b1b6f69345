package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spectriclabs/heka-data-service/internal/config"
)

func (a *API) GetFileContents(c echo.Context, locationName string, filePath string) error {
	reader, err := a.Source.Open(c.Request().Context(), locationName, filePath)
	if err != nil {
		return httpError(err)
	}
	defer reader.Close()

	contentType := "application/binary"
	if strings.HasSuffix(strings.ToLower(filePath), ".dat") {
		contentType = "application/x-heka-bundle"
	}
	return c.Stream(http.StatusOK, contentType, reader)
}

func (a *API) GetDirectoryContents(c echo.Context, locationName string, directoryPath string) error {
	entries, err := a.Source.List(c.Request().Context(), locationName, directoryPath)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetFileLocations lists the configured locations without their secret
// keys.
func (a *API) GetFileLocations(c echo.Context) error {
	locs := make([]config.Location, len(a.Cfg.LocationDetails))
	for i, l := range a.Cfg.LocationDetails {
		l.MinioSecretKey = ""
		locs[i] = l
	}
	return c.JSON(http.StatusOK, locs)
}

func (a *API) GetFileOrDirectory(c echo.Context) error {
	filePath := c.Param("*")
	locationName := c.Param("location")

	isDir, err := a.Source.IsDir(c.Request().Context(), locationName, filePath)
	if err != nil {
		return httpError(err)
	}
	if isDir {
		a.Log.Debug("path is a directory; returning listing",
			zap.String("location", locationName), zap.String("path", filePath))
		return a.GetDirectoryContents(c, locationName, filePath)
	}
	a.Log.Debug("path is a file; returning contents in raw mode",
		zap.String("location", locationName), zap.String("path", filePath))
	return a.GetFileContents(c, locationName, filePath)
}
