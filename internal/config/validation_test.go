package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBitbucketConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "empty is allowed", input: "", want: ""},
		{name: "bare domain", input: "stash.example.com", want: "https://stash.example.com/rest/api/1.0"},
		{name: "bare domain with slash", input: "stash.example.com/", want: "https://stash.example.com/rest/api/1.0"},
		{name: "full api url", input: "https://stash.example.com/rest/api/1.0/", want: "https://stash.example.com/rest/api/1.0"},
		{name: "plain http", input: "http://localhost:7990/rest/api/1.0", want: "http://localhost:7990/rest/api/1.0"},
		{name: "unsupported scheme", input: "ftp://stash.example.com", wantErr: true},
		{name: "missing host", input: "https:///rest/api/1.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := Bitbucket{URL: tt.input}
			err := ValidateBitbucketConfig(&bb)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bb.URL)
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	assert.Error(t, ValidateCredentials(&Bitbucket{}))
	assert.Error(t, ValidateCredentials(&Bitbucket{URL: "https://h/rest/api/1.0", Username: "u"}))
	assert.NoError(t, ValidateCredentials(&Bitbucket{URL: "https://h/rest/api/1.0", Username: "u", Token: "t"}))
}

func TestValidateVersionTags(t *testing.T) {
	assert.NoError(t, ValidateVersionTags(nil))
	assert.NoError(t, ValidateVersionTags(DefaultVersionTags()))
	assert.Error(t, ValidateVersionTags([]string{""}))
	assert.Error(t, ValidateVersionTags([]string{"<version>"}))
	assert.Error(t, ValidateVersionTags([]string{"my version"}))
	assert.Error(t, ValidateVersionTags([]string{"a", "b", "a"}))
}

func TestValidateScanConfig(t *testing.T) {
	assert.NoError(t, ValidateScanConfig(&Scan{}))
	assert.NoError(t, ValidateScanConfig(&Scan{Jobs: 100, TargetFile: "build.gradle"}))
	assert.Error(t, ValidateScanConfig(&Scan{Jobs: -1}))
	assert.Error(t, ValidateScanConfig(&Scan{Jobs: 101}))
	assert.Error(t, ValidateScanConfig(&Scan{TargetFile: "sub/pom.xml"}))
	assert.Error(t, ValidateScanConfig(&Scan{VersionTags: []string{"x", "x"}}))
}

func TestValidateOutputConfig(t *testing.T) {
	out := Output{}
	require.NoError(t, ValidateOutputConfig(&out))
	assert.Equal(t, Output{Path: DefaultOutputPath, Format: DefaultOutputFormat}, out)

	out = Output{Path: "report.jsonl", Format: "JSONL"}
	require.NoError(t, ValidateOutputConfig(&out))
	assert.Equal(t, "jsonl", out.Format)

	assert.Error(t, ValidateOutputConfig(&Output{Format: "xlsx"}))
}

func TestValidateHTTPConfig(t *testing.T) {
	assert.NoError(t, ValidateHTTPConfig(&HTTPClient{}))
	assert.NoError(t, ValidateHTTPConfig(&HTTPClient{Timeout: 30 * time.Second}))
	assert.Error(t, ValidateHTTPConfig(&HTTPClient{Timeout: -time.Second}))
	assert.Error(t, ValidateHTTPConfig(&HTTPClient{Timeout: time.Hour}))

	cfg := HTTPClient{Proxy: Proxy{Host: "proxy.local", Port: 3128}}
	require.NoError(t, ValidateHTTPConfig(&cfg))
	assert.Equal(t, "http://proxy.local", cfg.Proxy.Host)

	assert.Error(t, ValidateHTTPConfig(&HTTPClient{Proxy: Proxy{Host: "proxy.local", Port: 70000}}))
}

func TestValidateConfigEnvOverrides(t *testing.T) {
	t.Setenv("POMSCAN_BITBUCKET_URL", "stash.example.com")
	t.Setenv("POMSCAN_BITBUCKET_USERNAME", "svc-scanner")
	t.Setenv("POMSCAN_BITBUCKET_TOKEN", "s3cr3t")
	t.Setenv("POMSCAN_OUTPUT", "out/versions.csv")

	cfg := &Config{Bitbucket: Bitbucket{URL: "https://other.example.com/rest/api/1.0", Username: "file-user"}}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "https://stash.example.com/rest/api/1.0", cfg.Bitbucket.URL)
	assert.Equal(t, "svc-scanner", cfg.Bitbucket.Username)
	assert.Equal(t, "s3cr3t", cfg.Bitbucket.Token)
	assert.Equal(t, "out/versions.csv", cfg.Output.Path)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestValidateConfigNil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}

func TestNewConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
logger:
  level: debug
bitbucket:
  url: https://stash.example.com/rest/api/1.0
  username: scanner
scan:
  repositories:
    - EVT/attendee-order
    - PT/sms
  version_tags:
    - mono-java.version
  jobs: 4
output:
  path: reports/versions.csv
  format: jsonl
http_client:
  timeout: 30s
  tls_client_config:
    verify: false
  proxy:
    host: proxy.local
    port: 3128
metrics:
  textfile: /var/lib/node_exporter/pomscan.prom
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "scanner", cfg.Bitbucket.Username)
	assert.Equal(t, []string{"EVT/attendee-order", "PT/sms"}, cfg.Scan.Repositories)
	assert.Equal(t, []string{"mono-java.version"}, cfg.Scan.VersionTags)
	assert.Equal(t, 4, cfg.Scan.Jobs)
	assert.Equal(t, "jsonl", cfg.Output.Format)
	assert.Equal(t, 30*time.Second, cfg.HTTPClient.Timeout)
	require.NotNil(t, cfg.HTTPClient.TLSClientConfig.Verify)
	assert.False(t, *cfg.HTTPClient.TLSClientConfig.Verify)
	assert.Equal(t, 3128, cfg.HTTPClient.Proxy.Port)
	assert.Equal(t, "/var/lib/node_exporter/pomscan.prom", cfg.Metrics.Textfile)
}

func TestNewConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := NewConfig(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	_, err = NewConfig(dir)
	assert.ErrorContains(t, err, "is a directory")

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("scan: [unclosed"), 0o644))
	_, err = NewConfig(bad)
	assert.Error(t, err)
}
