package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envConfig mirrors the Config fields settable from the environment, under
// the JOURNALVAULT_ prefix (e.g. JOURNALVAULT_DATABASE_DSN).
type envConfig struct {
	EndpointAddrHTTP                   string `envconfig:"ENDPOINT_ADDR_HTTP"`
	DatabaseDSN                        string `envconfig:"DATABASE_DSN"`
	SecretKey                          string `envconfig:"SECRET_KEY"`
	EncryptionSecret                   string `envconfig:"ENCRYPTION_SECRET"`
	AccessTokenValidityDurationMinutes int    `envconfig:"ACCESS_TOKEN_VALIDITY_MINUTES"`
	S3RootUser                         string `envconfig:"S3_ROOT_USER"`
	S3RootPassword                     string `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket                           string `envconfig:"S3_BUCKET"`
	S3Region                           string `envconfig:"S3_REGION"`
	S3BaseEndpoint                     string `envconfig:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays environment values onto the Config. Unset variables
// leave the current values in place.
func parseEnv(config *Config) {
	var e envConfig
	if err := envconfig.Process("journalvault", &e); err != nil {
		panic(err)
	}

	if e.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = e.EndpointAddrHTTP
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.EncryptionSecret != "" {
		config.EncryptionSecret = e.EncryptionSecret
	}
	if e.AccessTokenValidityDurationMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(e.AccessTokenValidityDurationMinutes) * time.Minute
	}
	if e.S3RootUser != "" {
		config.S3RootUser = e.S3RootUser
	}
	if e.S3RootPassword != "" {
		config.S3RootPassword = e.S3RootPassword
	}
	if e.S3Bucket != "" {
		config.S3Bucket = e.S3Bucket
	}
	if e.S3Region != "" {
		config.S3Region = e.S3Region
	}
	if e.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = e.S3BaseEndpoint
	}
}
