package redis

import "time"

// Config holds the connection URL, pool sizing and key lifetimes
type Config struct {
	URL string // e.g. redis://localhost:6379/0

	PoolSize     int
	MinIdleConns int

	// Guest accounts expire; registered ones are kept
	GuestAccountTTL time.Duration
	// Rooms and their secrets share a lifetime that restarts on every save,
	// so abandoned rooms drop out on their own
	RoomTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:             "redis://localhost:6379",
		PoolSize:        10,
		MinIdleConns:    2,
		GuestAccountTTL: 24 * time.Hour,
		RoomTTL:         6 * time.Hour,
	}
}

// WithURL returns a copy pointing at another server
func (c Config) WithURL(url string) Config {
	c.URL = url
	return c
}
