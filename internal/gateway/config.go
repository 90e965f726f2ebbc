package gateway

import (
	"time"

	"golang.org/x/time/rate"
)

// Config holds websocket connection settings
type Config struct {
	// Per-connection command throttle
	RateLimit rate.Limit
	RateBurst int

	WriteWait      time.Duration // Time allowed to write a frame
	PongWait       time.Duration // Time allowed between pongs
	PingPeriod     time.Duration // Must be less than PongWait
	CommandTimeout time.Duration
	MaxMessageSize int64
	SendBufferSize int

	// CheckOrigin allows every origin when nil
	CheckOrigin func(origin string) bool
}

// DefaultConfig returns sensible defaults for the gateway
func DefaultConfig() Config {
	return Config{
		RateLimit:      rate.Limit(5),
		RateBurst:      10,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		CommandTimeout: 10 * time.Second,
		MaxMessageSize: 4096,
		SendBufferSize: 64,
	}
}
