package config

import (
	"reflect"
	"strings"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	fields := strings.Split(fieldPath, ".")
	val := reflect.ValueOf(config)

	for _, field := range fields {
		if val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return defaultValue
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return defaultValue
		}

		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		return val.Bool()
	}

	return defaultValue
}

// SetThen provides a utility to select the first value if set, otherwise defaults.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}

// GetVersionTags returns the configured tag names or the defaults.
func GetVersionTags(cfg *Config) []string {
	if cfg == nil || len(cfg.Scan.VersionTags) == 0 {
		return DefaultVersionTags()
	}
	return cfg.Scan.VersionTags
}

// GetTargetFile returns the build descriptor file name to look for.
func GetTargetFile(cfg *Config) string {
	if cfg == nil {
		return DefaultTargetFile
	}
	return SetThen(cfg.Scan.TargetFile, DefaultTargetFile)
}

// GetJobs returns the size of the fetch worker pool.
func GetJobs(cfg *Config) int {
	if cfg == nil {
		return DefaultJobs
	}
	return SetThen(cfg.Scan.Jobs, DefaultJobs)
}
