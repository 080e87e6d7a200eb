package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	maxJobs = 100
)

// ValidateConfig applies environment overrides and checks that the global configuration has valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	applyEnvOverrides(cfg)

	if err := ValidateBitbucketConfig(&cfg.Bitbucket); err != nil {
		return fmt.Errorf("YAML global config: bitbucket directive is invalid: %w", err)
	}
	if err := ValidateScanConfig(&cfg.Scan); err != nil {
		return fmt.Errorf("YAML global config: scan directive is invalid: %w", err)
	}
	if err := ValidateOutputConfig(&cfg.Output); err != nil {
		return fmt.Errorf("YAML global config: output directive is invalid: %w", err)
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	return nil
}

// ValidateBitbucketConfig normalizes the API base URL.
// A bare domain is expanded to https://<domain>/rest/api/1.0.
func ValidateBitbucketConfig(bb *Bitbucket) error {
	if bb == nil {
		return fmt.Errorf("bitbucket configuration is nil")
	}
	if bb.URL == "" {
		return nil
	}

	if !strings.Contains(bb.URL, "://") {
		bb.URL = fmt.Sprintf("https://%s/rest/api/1.0", strings.Trim(bb.URL, "/"))
	}
	bb.URL = strings.TrimRight(bb.URL, "/")

	u, err := url.Parse(bb.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", bb.URL)
	}
	return nil
}

// ValidateCredentials checks that everything needed to talk to Bitbucket is present.
func ValidateCredentials(bb *Bitbucket) error {
	if bb.URL == "" {
		return fmt.Errorf("bitbucket url is not set (config 'bitbucket.url' or POMSCAN_BITBUCKET_URL)")
	}
	if bb.Username == "" || bb.Token == "" {
		return fmt.Errorf("bitbucket credentials are not set (config 'bitbucket.username'/'bitbucket.token' or POMSCAN_BITBUCKET_USERNAME/POMSCAN_BITBUCKET_TOKEN)")
	}
	return nil
}

// ValidateScanConfig checks the scan settings.
func ValidateScanConfig(scan *Scan) error {
	if scan == nil {
		return fmt.Errorf("scan configuration is nil")
	}
	if scan.Jobs < 0 || scan.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d, or 0 for the default: %d", maxJobs, scan.Jobs)
	}
	if strings.ContainsAny(scan.TargetFile, "/\\") {
		return fmt.Errorf("target_file must be a file name, not a path: %q", scan.TargetFile)
	}
	return ValidateVersionTags(scan.VersionTags)
}

// ValidateVersionTags checks that tag names are usable as markup element names.
func ValidateVersionTags(tags []string) error {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("version tag must not be empty")
		}
		if strings.ContainsAny(tag, "<>/ \t\n") {
			return fmt.Errorf("version tag %q contains forbidden characters", tag)
		}
		if _, ok := seen[tag]; ok {
			return fmt.Errorf("version tag %q is listed more than once", tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// ValidateOutputConfig checks the report settings and fills in defaults.
func ValidateOutputConfig(out *Output) error {
	if out == nil {
		return fmt.Errorf("output configuration is nil")
	}
	out.Path = SetThen(out.Path, DefaultOutputPath)
	out.Format = strings.ToLower(SetThen(out.Format, DefaultOutputFormat))
	return ValidateOutputFormat(out.Format)
}

// ValidateOutputFormat checks that the report format is supported.
func ValidateOutputFormat(format string) error {
	switch format {
	case "csv", "jsonl":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q, expected csv or jsonl", format)
	}
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if err := validateDuration(httpConfig.Timeout, "timeout", 10*time.Minute); err != nil {
		return err
	}
	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if !strings.Contains(proxy.Host, "://") {
		proxy.Host = "http://" + proxy.Host
	}
	proxy.Host = strings.TrimRight(proxy.Host, "/")

	if _, err := url.Parse(proxy.Host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	if proxy.Port < 1 || proxy.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", proxy.Port)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over values from the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POMSCAN_BITBUCKET_URL"); v != "" {
		cfg.Bitbucket.URL = v
	}
	if v := os.Getenv("POMSCAN_BITBUCKET_USERNAME"); v != "" {
		cfg.Bitbucket.Username = v
	}
	if v := os.Getenv("POMSCAN_BITBUCKET_TOKEN"); v != "" {
		cfg.Bitbucket.Token = v
	}
	if v := os.Getenv("POMSCAN_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
}
