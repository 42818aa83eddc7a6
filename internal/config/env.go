package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvPath is read when present. A missing file is not an error.
var dotenvPath = ".env"

// parseEnv overlays Config with environment variables, after loading
// dotenvPath into the environment. Variables already set win over the file.
//
// Durations are Go duration strings ("15s"). Malformed values panic, like
// the JSON and flag loaders.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&cfg.ListenAddr, "CONSOLE_LISTEN_ADDR")
	envString(&cfg.APIBaseURL, "CONSOLE_API_BASE_URL")
	envDuration(&cfg.APITimeout, "CONSOLE_API_TIMEOUT")
	envString(&cfg.StorageDriver, "CONSOLE_STORAGE_DRIVER")
	envString(&cfg.StorageDSN, "CONSOLE_STORAGE_DSN")
	envString(&cfg.StorageSecret, "CONSOLE_STORAGE_SECRET")
	envString(&cfg.CSRFKey, "CONSOLE_CSRF_KEY")
	envString(&cfg.TimeZone, "CONSOLE_TIME_ZONE")
	envString(&cfg.DateLayout, "CONSOLE_DATE_LAYOUT")
	envString(&cfg.LogLevel, "CONSOLE_LOG_LEVEL")
	envDuration(&cfg.ShutdownTimeout, "CONSOLE_SHUTDOWN_TIMEOUT")
	envString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	envBool(&cfg.OTLPInsecure, "OTEL_EXPORTER_OTLP_INSECURE")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envBool(dst *bool, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	*dst = b
}
