package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tkanos/gonfig"
)

const (
	LocalFile = "localFile"
	Minio     = "minio"
)

type Config struct {
	Host                 string `json:"host,omitempty" mapstructure:"host"`
	Port                 int    `json:"port,omitempty" mapstructure:"port"`
	Debug                bool   `json:"debug,omitempty" mapstructure:"debug"`
	ConfigFile           string `json:"config_file,omitempty" mapstructure:"config_file"`
	LocationsFile        string `json:"locations_file,omitempty" mapstructure:"locations_file"`
	UseCache             bool   `json:"use_cache,omitempty" mapstructure:"use_cache"`
	CacheLocation        string `json:"cache_location,omitempty" mapstructure:"cache_location"`
	CachePollingInterval int    `json:"cache_polling_interval,omitempty" mapstructure:"cache_polling_interval"`
	CacheMaxBytes        int64  `json:"cache_max_bytes,omitempty" mapstructure:"cache_max_bytes"`
	UseAPM               bool   `json:"use_apm,omitempty" mapstructure:"use_apm"`

	// Defaults applied to series requests that leave the option unset.
	StimulusMode string `json:"stimulus_mode,omitempty" mapstructure:"stimulus_mode"`
	FillMode     string `json:"fill_mode,omitempty" mapstructure:"fill_mode"`

	LocationDetails []Location `json:"location_details,omitempty" mapstructure:"location_details"`
}

type Location struct {
	LocationName   string `json:"location_name" mapstructure:"location_name"`
	LocationType   string `json:"location_type" mapstructure:"location_type"`
	Path           string `json:"path,omitempty" mapstructure:"path"`
	MinioBucket    string `json:"minio_bucket,omitempty" mapstructure:"minio_bucket"`
	Location       string `json:"location,omitempty" mapstructure:"location"`
	MinioAccessKey string `json:"minio_access_key,omitempty" mapstructure:"minio_access_key"`
	MinioSecretKey string `json:"minio_secret_key,omitempty" mapstructure:"minio_secret_key"`
	MinioSecure    bool   `json:"minio_secure,omitempty" mapstructure:"minio_secure"`
}

// Validate checks that a location carries the fields its type needs.
func (l Location) Validate() error {
	if l.LocationName == "" {
		return errors.New("location without location_name")
	}
	switch l.LocationType {
	case LocalFile:
		if l.Path == "" {
			return errors.Errorf("localFile location %s needs a path", l.LocationName)
		}
	case Minio:
		if l.Location == "" || l.MinioBucket == "" {
			return errors.Errorf("minio location %s needs location and minio_bucket", l.LocationName)
		}
	default:
		return errors.Errorf("unsupported location type %q in %s", l.LocationType, l.LocationName)
	}
	return nil
}

// Lookup finds a configured location by name.
func (c *Config) Lookup(name string) (Location, bool) {
	for _, l := range c.LocationDetails {
		if l.LocationName == name {
			return l, true
		}
	}
	return Location{}, false
}

// Validate checks every location and rejects duplicate names.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.LocationDetails))
	for _, l := range c.LocationDetails {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.LocationName] {
			return errors.Errorf("duplicate location %s", l.LocationName)
		}
		seen[l.LocationName] = true
	}
	return nil
}

// LoadLocations reads a JSON file holding a location_details list.
func LoadLocations(path string) ([]Location, error) {
	var cfg Config
	if err := gonfig.GetConf(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "read locations file %s", path)
	}
	return cfg.LocationDetails, nil
}

// Load merges a YAML or JSON config file over cfg. Keys missing from the
// file keep the values already in cfg.
func Load(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("HDS")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return errors.Wrapf(err, "decode config file %s", path)
	}
	return nil
}
