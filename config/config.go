// Package config holds the popfiled configuration: application defaults,
// TOML file loading, and validation.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Output string `toml:"output"` // Log output: "stderr", "stdout", "syslog", or file path
	Format string `toml:"format"` // Log format: "json" or "console"
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", "error"
}

// ServerConfig holds the POP3 listener configuration.
type ServerConfig struct {
	// Addr is the TCP listen address in host:port form. A bare port is
	// also accepted and binds all interfaces.
	Addr string `toml:"addr"`

	// Name is the server name announced in the banner and signoff lines.
	Name string `toml:"name"`

	// StatusAddr enables the HTTP status endpoint (/healthz, /metrics,
	// /v1/messages) when non-empty.
	StatusAddr string `toml:"status_addr"`
}

// Config is the top-level popfiled configuration.
type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`

	// Messages is the ordered list of message source files. Command-line
	// paths are appended after entries from the config file.
	Messages []string `toml:"messages"`
}

// NewDefaultConfig returns a Config populated with application defaults.
// Values from a TOML file and command-line flags are layered on top.
func NewDefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Output: "stderr",
			Format: "console",
			Level:  "info",
		},
		Server: ServerConfig{
			Name: "popfiled",
		},
	}
}

// LoadFromFile decodes the TOML file at path over the existing values in cfg.
func LoadFromFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("configuration file '%s' not found: %w", path, err)
		}
		return fmt.Errorf("parsing configuration file '%s': %w", path, err)
	}
	return nil
}

// Validate checks the configuration for startup-blocking problems.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server listen address is required")
	}
	if _, err := ParseListenAddr(c.Server.Addr); err != nil {
		return err
	}
	if c.Server.Name == "" {
		return fmt.Errorf("server name must not be empty")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// ParseListenAddr normalizes a listen address given as "host:port" or a
// bare "port" into the host:port form net.Listen expects. The port must
// be numeric and within range.
func ParseListenAddr(arg string) (string, error) {
	host := ""
	port := arg
	if i := strings.LastIndex(arg, ":"); i >= 0 {
		host = strings.Trim(arg[:i], "[]")
		port = arg[i+1:]
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", fmt.Errorf("unknown port: %s", port)
	}
	return net.JoinHostPort(host, port), nil
}
