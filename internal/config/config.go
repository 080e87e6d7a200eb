package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	Bitbucket  Bitbucket  `yaml:"bitbucket"`
	Scan       Scan       `yaml:"scan"`
	Output     Output     `yaml:"output"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Metrics    Metrics    `yaml:"metrics"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Bitbucket holds the server location and the basic credentials used for every request.
type Bitbucket struct {
	URL      string `yaml:"url"`      // REST API base, e.g. https://stash.example.com/rest/api/1.0, or a bare domain
	Username string `yaml:"username"` // Username for Bitbucket access
	Token    string `yaml:"token"`    // Password or HTTP access token
}

// Scan lists what to scan and what to look for.
type Scan struct {
	Repositories []string `yaml:"repositories"` // KEY/slug pairs or Bitbucket repository URLs
	VersionTags  []string `yaml:"version_tags"`
	TargetFile   string   `yaml:"target_file"`
	Jobs         int      `yaml:"jobs"`
}

type Output struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

type HTTPClient struct {
	Debug           *bool           `yaml:"debug"`
	Timeout         time.Duration   `yaml:"timeout"`
	TLSClientConfig TLSClientConfig `yaml:"tls_client_config"`
	Proxy           Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Metrics configures the optional Prometheus textfile export.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// ValidateConfigPath checks that the path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}

	return nil
}

// NewConfig reads the configuration file.
func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}
