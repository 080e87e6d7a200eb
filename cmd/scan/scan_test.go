package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/pomscan/internal/config"
	"github.com/scan-io-git/pomscan/pkg/shared"
)

func TestValidateScanArgs(t *testing.T) {
	tests := []struct {
		name    string
		options RunOptions
		args    []string
		wantErr bool
	}{
		{name: "defaults", options: RunOptions{}},
		{name: "all set", options: RunOptions{Jobs: 5, Format: "JSONL", TargetFile: "pom.xml", VersionTags: []string{"a.version"}}, args: []string{"EVT/attendee-order"}},
		{name: "negative jobs", options: RunOptions{Jobs: -1}, wantErr: true},
		{name: "too many jobs", options: RunOptions{Jobs: 101}, wantErr: true},
		{name: "unknown format", options: RunOptions{Format: "xml"}, wantErr: true},
		{name: "file is a path", options: RunOptions{TargetFile: "a/pom.xml"}, wantErr: true},
		{name: "bad tag", options: RunOptions{VersionTags: []string{"<a>"}}, wantErr: true},
		{name: "empty argument", args: []string{" "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScanArgs(&tt.options, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Scan: config.Scan{
			Repositories: []string{"EVT/attendee-order", "PT/sms"},
			VersionTags:  []string{"mono-java.version"},
			Jobs:         4,
		},
		Output:  config.Output{Path: "out.jsonl", Format: "jsonl"},
		Metrics: config.Metrics{Textfile: "pomscan.prom"},
	}

	got, err := resolveOptions(cfg, &RunOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, RunOptions{
		Repositories: []string{"EVT/attendee-order", "PT/sms"},
		VersionTags:  []string{"mono-java.version"},
		TargetFile:   config.DefaultTargetFile,
		OutputPath:   "out.jsonl",
		Format:       "jsonl",
		Jobs:         4,
		MetricsFile:  "pomscan.prom",
	}, got)
}

func TestResolveOptionsFlagsWin(t *testing.T) {
	cfg := &config.Config{Scan: config.Scan{Repositories: []string{"EVT/attendee-order"}}}
	opts := &RunOptions{
		Repositories: []string{"LS/ls-adr"},
		VersionTags:  []string{"postgresql.version"},
		TargetFile:   "build.xml",
		OutputPath:   "r.csv",
		Format:       "CSV",
		Jobs:         2,
		FailOnError:  true,
	}

	got, err := resolveOptions(cfg, opts, []string{"APPT/appointments"})
	require.NoError(t, err)
	assert.Equal(t, []string{"LS/ls-adr", "APPT/appointments"}, got.Repositories)
	assert.Equal(t, []string{"postgresql.version"}, got.VersionTags)
	assert.Equal(t, "build.xml", got.TargetFile)
	assert.Equal(t, "r.csv", got.OutputPath)
	assert.Equal(t, "csv", got.Format)
	assert.Equal(t, 2, got.Jobs)
	assert.True(t, got.FailOnError)
}

func TestResolveOptionsDefaults(t *testing.T) {
	got, err := resolveOptions(&config.Config{}, &RunOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Repositories)
	assert.Equal(t, config.DefaultVersionTags(), got.VersionTags)
	assert.Equal(t, config.DefaultOutputPath, got.OutputPath)
	assert.Equal(t, config.DefaultOutputFormat, got.Format)
	assert.Equal(t, config.DefaultJobs, got.Jobs)
}

func TestResolveOptionsReposFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos.txt")
	require.NoError(t, os.WriteFile(path, []byte("# team\nLS/ls-adr\nPT/sms\n"), 0o644))

	cfg := &config.Config{Scan: config.Scan{Repositories: []string{"EVT/attendee-order"}}}
	got, err := resolveOptions(cfg, &RunOptions{Repositories: []string{"API/universal-appointments"}, ReposFile: path}, []string{"BT/bt-test-utils"})
	require.NoError(t, err)
	assert.Equal(t, []string{"API/universal-appointments", "LS/ls-adr", "PT/sms", "BT/bt-test-utils"}, got.Repositories)

	_, err = resolveOptions(cfg, &RunOptions{ReposFile: filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.Error(t, err)
}

func TestPrepareScanTargets(t *testing.T) {
	refs, err := prepareScanTargets([]string{
		"EVT/attendee-order",
		"https://stash.example.com/projects/LS/repos/ls-adr/browse",
		"EVT/attendee-order",
	})
	require.NoError(t, err)
	assert.Equal(t, []shared.RepositoryRef{
		{ProjectKey: "EVT", RepoSlug: "attendee-order"},
		{ProjectKey: "LS", RepoSlug: "ls-adr"},
		{ProjectKey: "EVT", RepoSlug: "attendee-order"},
	}, refs)

	_, err = prepareScanTargets(nil)
	assert.Error(t, err)

	_, err = prepareScanTargets([]string{"not-a-ref"})
	assert.Error(t, err)
}
