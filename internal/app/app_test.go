package app_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/api"
	"github.com/spectriclabs/heka-data-service/internal/app"
)

func TestParseCLIDefaults(t *testing.T) {
	cfg := app.ParseCLI(nil)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 5055, cfg.Port)
	assert.True(t, cfg.UseCache)
	assert.Equal(t, "off", cfg.StimulusMode)

	cfg = app.ParseCLI([]string{"-p", "6000", "--stim", "experimental", "--use-cache=false"})
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "experimental", cfg.StimulusMode)
	assert.False(t, cfg.UseCache)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	locations := filepath.Join(dir, "hdsConfig.json")
	require.NoError(t, os.WriteFile(locations,
		[]byte(`{"location_details":[{"location_name":"data","location_type":"localFile","path":"`+dir+`"}]}`), 0o600))

	cfg := app.ParseCLI([]string{"--locations", locations})
	require.NoError(t, app.LoadConfig(&cfg))
	require.Len(t, cfg.LocationDetails, 1)
	assert.Equal(t, "data", cfg.LocationDetails[0].LocationName)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad,
		[]byte(`{"location_details":[{"location_name":"data","location_type":"ftp"}]}`), 0o600))
	cfg = app.ParseCLI([]string{"--locations", bad})
	assert.Error(t, app.LoadConfig(&cfg))
}

func TestSetupServerRoutes(t *testing.T) {
	cfg := app.ParseCLI([]string{"--use-cache=false"})
	e := app.SetupServer(api.NewHDSAPI(&cfg, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hds/fs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hds/hdr/nowhere/cell.dat", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
