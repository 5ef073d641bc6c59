package config

import (
	"encoding/json"
	"os"

	"github.com/groupfinal/accounts/internal/flagx"
	"github.com/groupfinal/accounts/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "15m" style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BootstrapAdminUsername       string         `json:"bootstrap_admin_username"`
	BootstrapAdminPassword       string         `json:"bootstrap_admin_password"`
}

// parseJson overlays config with the file named by -c / -config. Keys that
// are missing from the file keep their current value. Without the flag
// nothing happens; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.BootstrapAdminUsername, c.BootstrapAdminUsername)
	setString(&config.BootstrapAdminPassword, c.BootstrapAdminPassword)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
