package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/anovikov/journalvault/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. Durations are given in minutes. After unmarshalling, its non-zero
// fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP                   string `json:"endpoint_addr_http"`
	DatabaseDSN                        string `json:"database_dsn"`
	SecretKey                          string `json:"secret_key"`
	EncryptionSecret                   string `json:"encryption_secret"`
	AccessTokenValidityDurationMinutes int    `json:"access_token_validity_duration_minutes"`
	S3RootUser                         string `json:"s3_root_user"`
	S3RootPassword                     string `json:"s3_root_password"`
	S3Bucket                           string `json:"s3_bucket"`
	S3Region                           string `json:"s3_region"`
	S3BaseEndpoint                     string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no flag is set, nothing is
// loaded. An unreadable or invalid file panics: a requested config file that
// cannot be applied is a startup error.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.EncryptionSecret != "" {
		config.EncryptionSecret = c.EncryptionSecret
	}
	if c.AccessTokenValidityDurationMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDurationMinutes) * time.Minute
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
