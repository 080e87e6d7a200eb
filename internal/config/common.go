package config

import (
	"crypto/tls"
	"time"
)

const (
	DefaultTargetFile   = "pom.xml"
	DefaultJobs         = 10
	DefaultOutputPath   = "versions.csv"
	DefaultOutputFormat = "csv"
	DefaultConfigPath   = "config.yml"
)

// DefaultVersionTags returns the tag names searched for when the configuration does not list any.
func DefaultVersionTags() []string {
	return []string{"mono-java.version", "postgresql.version", "mssql.version", "maven-parent"}
}

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount      int           // Number of retries for failed requests
	Timeout         time.Duration // Timeout for requests, zero means none
	TLSClientConfig *tls.Config   // TLS configuration
	Proxy           string        // Proxy address
}

// RestyHTTPClientConfig holds additional configuration settings for the Resty HTTP client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool // Flag to enable Resty debug mode
}

// DefaultHTTPConfig returns a base configuration for HTTP clients with default values.
// Requests are attempted once and rely on the transport defaults for timeouts.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount: 0,
		Timeout:    0,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: false,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a default configuration for the Resty HTTP client, extending the base HTTP configuration.
func DefaultRestyConfig() RestyHTTPClientConfig {
	return RestyHTTPClientConfig{
		BaseHTTPConfig: DefaultHTTPConfig(),
		Debug:          false,
	}
}
