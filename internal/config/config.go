// Package config loads the daemon configuration file.
//
// Example:
//
//	{
//	  "listen": "127.0.0.1:7778",
//	  "backend": "localfs",
//	  "store_dir": "/var/lib/abiparam",
//	  "log_level": "info",
//	  "max_msg_bytes": 4194304
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultListen      = "127.0.0.1:7778"
	DefaultBackend     = "memory"
	DefaultLogLevel    = "info"
	DefaultMaxMsgBytes = 4 << 20
)

type Config struct {
	Listen      string `json:"listen,omitempty"`
	Backend     string `json:"backend,omitempty"`
	StoreDir    string `json:"store_dir,omitempty"`
	LogLevel    string `json:"log_level,omitempty"`
	MaxMsgBytes int    `json:"max_msg_bytes,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:      DefaultListen,
		Backend:     DefaultBackend,
		LogLevel:    DefaultLogLevel,
		MaxMsgBytes: DefaultMaxMsgBytes,
	}
}

// LoadFile reads path over Default. Unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config: empty config path")
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("config: invalid listen address %q: %w", c.Listen, err)
	}
	switch c.Backend {
	case "memory":
	case "localfs":
		if c.StoreDir == "" {
			return errors.New("config: store_dir is required for the localfs backend")
		}
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.MaxMsgBytes < 0 {
		return fmt.Errorf("config: max_msg_bytes must not be negative, got %d", c.MaxMsgBytes)
	}
	return nil
}

// Logger builds a production zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
