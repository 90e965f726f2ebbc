package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/whoknow/internal/factory"
	"github.com/mcoot/whoknow/internal/gateway"
	redisstorage "github.com/mcoot/whoknow/internal/storage/redis"
)

// serverEnv is everything the server reads from the environment
type serverEnv struct {
	Port     int
	LogLevel slog.Level

	Factory factory.Config

	// Per-account REST throttle
	APIRateLimit rate.Limit
	APIRateBurst int

	JanitorInterval time.Duration
}

// loadEnv reads configuration; lookup is os.LookupEnv outside tests
func loadEnv(lookup func(string) (string, bool)) (serverEnv, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	var env serverEnv
	var err error

	if env.Port, err = strconv.Atoi(get("PORT", "8080")); err != nil {
		return env, fmt.Errorf("PORT: %w", err)
	}
	if err = env.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return env, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	env.Factory.StorageType = strings.ToLower(get("STORAGE_TYPE", factory.StorageTypeMemory))
	if env.Factory.StorageType == factory.StorageTypeRedis {
		redisURL := get("REDIS_URL", "")
		if redisURL == "" {
			return env, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig().WithURL(redisURL)
		env.Factory.RedisConfig = &redisCfg
	}

	gwCfg := gateway.DefaultConfig()
	wsLimit, err := strconv.ParseFloat(get("WS_RATE_LIMIT", fmt.Sprint(float64(gwCfg.RateLimit))), 64)
	if err != nil {
		return env, fmt.Errorf("WS_RATE_LIMIT: %w", err)
	}
	gwCfg.RateLimit = rate.Limit(wsLimit)
	if gwCfg.RateBurst, err = strconv.Atoi(get("WS_RATE_BURST", strconv.Itoa(gwCfg.RateBurst))); err != nil {
		return env, fmt.Errorf("WS_RATE_BURST: %w", err)
	}
	if origins := get("WS_ALLOWED_ORIGINS", ""); origins != "" {
		allowed := strings.Split(origins, ",")
		gwCfg.CheckOrigin = func(origin string) bool {
			for _, a := range allowed {
				if strings.TrimSpace(a) == origin {
					return true
				}
			}
			return false
		}
	}
	env.Factory.GatewayConfig = &gwCfg

	apiLimit, err := strconv.ParseFloat(get("API_RATE_LIMIT", "10"), 64)
	if err != nil {
		return env, fmt.Errorf("API_RATE_LIMIT: %w", err)
	}
	env.APIRateLimit = rate.Limit(apiLimit)
	if env.APIRateBurst, err = strconv.Atoi(get("API_RATE_BURST", "20")); err != nil {
		return env, fmt.Errorf("API_RATE_BURST: %w", err)
	}

	if env.JanitorInterval, err = time.ParseDuration(get("JANITOR_INTERVAL", "5m")); err != nil {
		return env, fmt.Errorf("JANITOR_INTERVAL: %w", err)
	}

	return env, nil
}
