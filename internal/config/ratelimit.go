package config

import "time"

// RateLimitConfig defines settings for the Redis-backed request limiter
// applied to the seat claim endpoint.  When Enabled is false or no Redis
// client is available, limiting is disabled and requests pass through.
type RateLimitConfig struct {
	Enabled bool          // master switch
	Limit   int           // requests allowed per window
	Window  time.Duration // length of the counting window
	Prefix  string        // Redis key namespace
}

// LoadRateLimitConfig reads rate limiter settings from the environment.
// The defaults are tuned for a booking page: a short window that absorbs
// double clicks without letting one client hammer the claim path.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Limit:   envInt("RATE_LIMIT_REQUESTS", 10),
		Window:  envDur("RATE_LIMIT_WINDOW", 10*time.Second),
		Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	return cfg
}
