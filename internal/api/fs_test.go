package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/api"
	"github.com/spectriclabs/heka-data-service/internal/config"
	"github.com/spectriclabs/heka-data-service/internal/datasource"
)

var hdsConfigString string = `[{"location_name":"ServiceDir","location_type":"localFile","path":"./"},{"location_name":"minio","location_type":"minio","minio_bucket":"hekadata","location":"127.0.0.1:9000","minio_access_key":"minio","minio_secret_key":"miniostorage"}]`

// newAPI serves a temporary directory as the "local" location.
func newAPI(t *testing.T) (*api.API, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		CacheLocation: t.TempDir(),
		LocationDetails: []config.Location{
			{LocationName: "local", LocationType: config.LocalFile, Path: root},
		},
	}
	return api.NewHDSAPI(cfg, nil), root
}

func newContext(target string, names []string, values []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestFS(t *testing.T) {
	var locationDetails []config.Location
	require.NoError(t, json.Unmarshal([]byte(hdsConfigString), &locationDetails))

	a := api.NewHDSAPI(&config.Config{LocationDetails: locationDetails}, nil)
	c, rec := newContext("/hds/fs", nil, nil)
	c.SetPath("/hds/fs")

	if assert.NoError(t, a.GetFileLocations(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		body := strings.TrimSpace(rec.Body.String())
		assert.NotContains(t, body, "miniostorage")
		assert.Contains(t, body, `"minio_access_key":"minio"`)
	}
}

func TestFSDir(t *testing.T) {
	a, root := newAPI(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cells"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cells", "one.dat"), []byte("DAT2"), 0o600))

	c, rec := newContext("/hds/fs/local/cells", []string{"location", "*"}, []string{"local", "cells"})
	if assert.NoError(t, a.GetFileOrDirectory(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var entries []datasource.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		assert.Equal(t, []datasource.Entry{{Filename: "one.dat", Type: "file", Size: 4}}, entries)
	}
}

func TestFSFile(t *testing.T) {
	a, root := newAPI(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.dat"), []byte("DAT2"), 0o600))

	c, rec := newContext("/hds/fs/local/one.dat", []string{"location", "*"}, []string{"local", "one.dat"})
	if assert.NoError(t, a.GetFileOrDirectory(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/x-heka-bundle", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, "DAT2", rec.Body.String())
	}
}

func TestFSErrors(t *testing.T) {
	a, _ := newAPI(t)

	c, _ := newContext("/hds/fs/nowhere/x", []string{"location", "*"}, []string{"nowhere", "x"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, a.GetFileOrDirectory(c)))

	c, _ = newContext("/hds/fs/local/missing.dat", []string{"location", "*"}, []string{"local", "missing.dat"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, a.GetFileOrDirectory(c)))

	c, _ = newContext("/hds/fs/local/../x", []string{"location", "*"}, []string{"local", "../x"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, a.GetFileOrDirectory(c)))
}
