package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBoolValue(t *testing.T) {
	yes, no := true, false

	assert.True(t, GetBoolValue(nil, "Logger.JSONFormat", true))
	assert.False(t, GetBoolValue(&Config{}, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(&Config{Logger: Logger{JSONFormat: &yes}}, "Logger.JSONFormat", false))
	assert.False(t, GetBoolValue(&Config{Logger: Logger{DisableTime: &no}}, "Logger.DisableTime", true))
	assert.True(t, GetBoolValue(&Config{}, "Logger.Missing", true))

	var cfg *Config
	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", true))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "a", SetThen("a", "b"))
	assert.Equal(t, "b", SetThen("", "b"))
	assert.Equal(t, 10, SetThen(0, 10))
	assert.Equal(t, 3, SetThen(3, 10))
}

func TestScanGetters(t *testing.T) {
	assert.Equal(t, DefaultVersionTags(), GetVersionTags(nil))
	assert.Equal(t, DefaultTargetFile, GetTargetFile(&Config{}))
	assert.Equal(t, DefaultJobs, GetJobs(&Config{}))

	cfg := &Config{Scan: Scan{VersionTags: []string{"x"}, TargetFile: "build.xml", Jobs: 2}}
	assert.Equal(t, []string{"x"}, GetVersionTags(cfg))
	assert.Equal(t, "build.xml", GetTargetFile(cfg))
	assert.Equal(t, 2, GetJobs(cfg))
}
