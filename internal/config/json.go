package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
	"github.com/dmitrijs2005/adminconsole/internal/timex"
)

// JsonConfig is the on-disk shape. Pointer fields tell "absent" from "zero"
// so a partial file only overrides what it names.
type JsonConfig struct {
	ListenAddr      *string         `json:"listen_addr"`
	APIBaseURL      *string         `json:"api_base_url"`
	APITimeout      *timex.Duration `json:"api_timeout"`
	StorageDriver   *string         `json:"storage_driver"`
	StorageDSN      *string         `json:"storage_dsn"`
	StorageSecret   *string         `json:"storage_secret"`
	CSRFKey         *string         `json:"csrf_key"`
	TimeZone        *string         `json:"time_zone"`
	DateLayout      *string         `json:"date_layout"`
	LogLevel        *string         `json:"log_level"`
	OTLPEndpoint    *string         `json:"otlp_endpoint"`
	OTLPInsecure    *bool           `json:"otlp_insecure"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays Config with the file named by -c or -config. Without
// either flag nothing is loaded. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.StorageSecret, jc.StorageSecret)
	setString(&cfg.CSRFKey, jc.CSRFKey)
	setString(&cfg.TimeZone, jc.TimeZone)
	setString(&cfg.DateLayout, jc.DateLayout)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.OTLPEndpoint, jc.OTLPEndpoint)
	if jc.OTLPInsecure != nil {
		cfg.OTLPInsecure = *jc.OTLPInsecure
	}
	if jc.APITimeout != nil {
		cfg.APITimeout = jc.APITimeout.Duration
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
