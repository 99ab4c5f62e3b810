package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// EndpointDefault is the production SSW quotation/collection endpoint.
	EndpointDefault = "https://ssw.inf.br/ws/sswCotacaoColeta/index.php"

	// TimeoutDefault bounds a single remote call end to end.
	TimeoutDefault = 30 * time.Second
)

// ServerConfig holds all gateway configuration.
type ServerConfig struct {
	Host        string
	Port        int
	Endpoint    string
	Timeout     time.Duration
	AccessToken string
	Verbose     bool
	Debug       bool

	// DefaultCollect is the collection-flag default applied when the client
	// payload does not carry a recognizable value. Historical call sites
	// disagreed on this default, so it is an explicit deployment choice.
	DefaultCollect bool
}

// DefaultFromEnv creates a ServerConfig with defaults from environment variables.
func DefaultFromEnv() *ServerConfig {
	return &ServerConfig{
		Host:           envOrDefault("FREIGHTGATE_HOST", "127.0.0.1"),
		Port:           envInt("FREIGHTGATE_PORT", 8000),
		Endpoint:       envOrDefault("FREIGHTGATE_ENDPOINT", EndpointDefault),
		Timeout:        time.Duration(envInt("FREIGHTGATE_TIMEOUT_SECONDS", int(TimeoutDefault/time.Second))) * time.Second,
		AccessToken:    strings.TrimSpace(os.Getenv("FREIGHTGATE_ACCESS_TOKEN")),
		Verbose:        envBool("FREIGHTGATE_VERBOSE"),
		Debug:          envBool("FREIGHTGATE_DEBUG"),
		DefaultCollect: envBool("FREIGHTGATE_DEFAULT_COLLECT"),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
