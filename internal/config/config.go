package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
)

// Config holds runtime settings for the admin console and its CLI.
//
// APITimeout of zero leaves API requests unbounded. An empty StorageSecret
// stores tokens in clear text, an empty CSRFKey turns CSRF checks off and an
// empty OTLPEndpoint disables tracing export.
type Config struct {
	ListenAddr      string
	APIBaseURL      string
	APITimeout      time.Duration
	StorageDriver   string
	StorageDSN      string
	StorageSecret   string
	CSRFKey         string
	TimeZone        string
	DateLayout      string
	LogLevel        string
	OTLPEndpoint    string
	OTLPInsecure    bool
	ShutdownTimeout time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.APITimeout = 0
	c.StorageDriver = storage.DriverSQLite
	c.StorageDSN = "console.db"
	c.StorageSecret = ""
	c.CSRFKey = ""
	c.TimeZone = "Local"
	c.DateLayout = ""
	c.LogLevel = "info"
	c.OTLPEndpoint = ""
	c.OTLPInsecure = false
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig applies defaults, .env, the environment, an optional JSON file
// and flags, each overriding the previous one. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks what cannot be caught by parsing alone.
func (c *Config) Validate() error {
	var errs []error

	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is empty"))
	} else if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be absolute", c.APIBaseURL))
	}
	if c.APITimeout < 0 {
		errs = append(errs, errors.New("api timeout is negative"))
	}
	if !slices.Contains(storage.Drivers, c.StorageDriver) {
		errs = append(errs, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.StorageDriver))
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		errs = append(errs, errors.New("csrf key must be 32 bytes"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Location resolves TimeZone. "" and "Local" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
