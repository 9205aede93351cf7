package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	AppContext       string
	OrbisBaseURL     string
	OrbisAPIKey      string
	RPCEndpoints     map[uint64]string
	TreasuryKey      string
	Confirmations    uint64
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	GeoIPDBPath      string
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// APP_CONTEXT is the discussion context identifier all posts and donation
// records are scoped to; it used to be an ambient client-side global and is
// now explicit configuration.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AppContext:       os.Getenv("APP_CONTEXT"),
		OrbisBaseURL:     getEnv("ORBIS_BASE_URL", "https://api.orbis.club/v1"),
		OrbisAPIKey:      os.Getenv("ORBIS_API_KEY"),
		TreasuryKey:      os.Getenv("TREASURY_PRIVATE_KEY"),
		Confirmations:    uint64(getEnvInt("TX_CONFIRMATIONS", 1)),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	endpoints, err := parseRPCEndpoints(os.Getenv("RPC_ENDPOINTS"))
	if err != nil {
		return nil, err
	}
	cfg.RPCEndpoints = endpoints

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.AppContext == "" {
		return nil, fmt.Errorf("APP_CONTEXT is required")
	}

	return cfg, nil
}

// parseRPCEndpoints parses "chainID=url" pairs separated by commas, e.g.
// "1=https://eth.example.com,137=https://polygon.example.com".
func parseRPCEndpoints(raw string) (map[uint64]string, error) {
	endpoints := make(map[uint64]string)
	for _, pair := range splitCSV(raw) {
		id, url, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("RPC_ENDPOINTS: malformed entry %q", pair)
		}
		chainID, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RPC_ENDPOINTS: invalid chain id %q", id)
		}
		endpoints[chainID] = strings.TrimSpace(url)
	}
	return endpoints, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
