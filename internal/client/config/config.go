// Package config holds the account CLI settings: defaults, an optional JSON
// file and command-line overrides applied by the cobra root command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/groupfinal/accounts/internal/timex"
)

// Config holds runtime settings for the account CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the account gRPC endpoint.
//   - RequestTimeout: deadline applied to every RPC.
//   - SessionDir: directory (relative to the working directory) holding the
//     SQLite session database with the stored tokens.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	SessionDir         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.SessionDir = ".accounts"
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations may
// be written as "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	SessionDir         string         `json:"session_dir"`
}

// LoadFile overlays c with the values present in the JSON file at path.
// Keys that are absent keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != "" {
		c.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout.Duration != 0 {
		c.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionDir != "" {
		c.SessionDir = jc.SessionDir
	}
	return nil
}
