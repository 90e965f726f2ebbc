package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration gathered from flags and WHOKNOW_* env vars
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WHOKNOW_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("WHOKNOW_TOKEN"),
		TokenFile: getEnvOrDefault("WHOKNOW_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// Validate rejects flag values no command can work with
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server URL %q must start with http:// or https://", c.ServerURL)
	}
	return nil
}

// Logger returns a debug logger on w when verbose, otherwise a silent one
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// LoadToken reads the token file unless a token was already given
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken remembers the session token for later invocations
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".whoknow", "token")
	}
	return filepath.Join(home, ".whoknow", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
