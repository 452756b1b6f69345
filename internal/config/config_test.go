package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectriclabs/heka-data-service/internal/config"
)

const locationsJSON = `{"location_details":[
{"location_name":"ServiceDir","location_type":"localFile","path":"./"},
{"location_name":"minio","location_type":"minio","minio_bucket":"hekadata","location":"127.0.0.1:9000","minio_access_key":"minio","minio_secret_key":"miniostorage"}]}`

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadLocations(t *testing.T) {
	locs, err := config.LoadLocations(write(t, "locations.json", locationsJSON))
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, config.LocalFile, locs[0].LocationType)
	assert.Equal(t, "hekadata", locs[1].MinioBucket)

	cfg := config.Config{LocationDetails: locs}
	assert.NoError(t, cfg.Validate())

	l, ok := cfg.Lookup("minio")
	assert.True(t, ok)
	assert.Equal(t, "127.0.0.1:9000", l.Location)
	_, ok = cfg.Lookup("nowhere")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	cases := map[string]config.Location{
		"no name":      {LocationType: config.LocalFile, Path: "."},
		"no path":      {LocationName: "a", LocationType: config.LocalFile},
		"no bucket":    {LocationName: "a", LocationType: config.Minio, Location: "host:9000"},
		"unknown type": {LocationName: "a", LocationType: "ftp"},
	}
	for name, loc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, loc.Validate())
		})
	}

	dup := config.Config{LocationDetails: []config.Location{
		{LocationName: "a", LocationType: config.LocalFile, Path: "."},
		{LocationName: "a", LocationType: config.LocalFile, Path: "/data"},
	}}
	assert.Error(t, dup.Validate())
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg := config.Config{Host: "0.0.0.0", Port: 5055}
	path := write(t, "hds.yml", "port: 6000\ncache_location: /tmp/hds\n")

	require.NoError(t, config.Load(path, &cfg))
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "/tmp/hds", cfg.CacheLocation)
}
