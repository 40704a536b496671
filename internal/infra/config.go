package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FallbackStrict = "strict"
	FallbackMock   = "mock"

	NameMatchingExact  = "exact"
	NameMatchingFolded = "folded"

	// MaxDonorPages bounds how many Schedule A pages a single source may yield.
	MaxDonorPages = 20
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	FECAPIKey          string
	FECBaseURL         string
	FECTimeout         time.Duration
	FECRequestsPerSec  float64
	FECBurst           int
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
	RedisURL           string
	RosterTTL          time.Duration
	RosterFallback     string
	DonorTopN          int
	DonorPageSize      int
	DonorMaxPages      int
	DonorConcurrency   int
	DonorFallback      string
	DonorNameMatching  string
	DonorTypeRulesPath string
	SmallDonation      decimal.Decimal
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// A missing FEC API key is not an error: callers degrade to bundled data.
func LoadConfig() (*Config, error) {
	apiKey := os.Getenv("FEC_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENFEC_API_KEY")
	}
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		FECAPIKey:          strings.TrimSpace(apiKey),
		FECBaseURL:         getEnv("FEC_BASE_URL", "https://api.open.fec.gov/v1"),
		FECTimeout:         time.Second * time.Duration(getEnvInt("FEC_TIMEOUT_SECONDS", 15)),
		FECRequestsPerSec:  getEnvFloat("FEC_REQUESTS_PER_SECOND", 2),
		FECBurst:           getEnvInt("FEC_BURST", 10),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RedisURL:           strings.TrimSpace(os.Getenv("REDIS_URL")),
		RosterTTL:          time.Hour * time.Duration(getEnvInt("ROSTER_TTL_HOURS", 24)),
		RosterFallback:     strings.ToLower(getEnv("ROSTER_FALLBACK", FallbackMock)),
		DonorTopN:          getEnvInt("DONOR_TOP_N", 20),
		DonorPageSize:      getEnvInt("DONOR_PAGE_SIZE", 100),
		DonorMaxPages:      getEnvInt("DONOR_MAX_PAGES", MaxDonorPages),
		DonorConcurrency:   getEnvInt("DONOR_CONCURRENCY", 4),
		DonorFallback:      strings.ToLower(getEnv("DONOR_FALLBACK", FallbackStrict)),
		DonorNameMatching:  strings.ToLower(getEnv("DONOR_NAME_MATCHING", NameMatchingExact)),
		DonorTypeRulesPath: os.Getenv("DONOR_TYPE_RULES_PATH"),
	}

	threshold, err := decimal.NewFromString(getEnv("SMALL_DONATION_THRESHOLD", "200"))
	if err != nil {
		return nil, fmt.Errorf("SMALL_DONATION_THRESHOLD: %w", err)
	}
	if threshold.IsNegative() {
		return nil, fmt.Errorf("SMALL_DONATION_THRESHOLD must not be negative")
	}
	cfg.SmallDonation = threshold

	if cfg.DonorFallback != FallbackStrict && cfg.DonorFallback != FallbackMock {
		return nil, fmt.Errorf("DONOR_FALLBACK must be %q or %q", FallbackStrict, FallbackMock)
	}
	if cfg.RosterFallback != FallbackStrict && cfg.RosterFallback != FallbackMock {
		return nil, fmt.Errorf("ROSTER_FALLBACK must be %q or %q", FallbackStrict, FallbackMock)
	}
	if cfg.DonorNameMatching != NameMatchingExact && cfg.DonorNameMatching != NameMatchingFolded {
		return nil, fmt.Errorf("DONOR_NAME_MATCHING must be %q or %q", NameMatchingExact, NameMatchingFolded)
	}
	if cfg.DonorPageSize <= 0 || cfg.DonorPageSize > 100 {
		cfg.DonorPageSize = 100
	}
	if cfg.DonorMaxPages <= 0 || cfg.DonorMaxPages > MaxDonorPages {
		cfg.DonorMaxPages = MaxDonorPages
	}
	if cfg.DonorConcurrency <= 0 {
		cfg.DonorConcurrency = 1
	}
	if cfg.RosterTTL <= 0 {
		cfg.RosterTTL = 24 * time.Hour
	}

	return cfg, nil
}

// HasFECCredentials reports whether an API key was configured.
func (c *Config) HasFECCredentials() bool {
	return c.FECAPIKey != ""
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

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
