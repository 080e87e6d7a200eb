// Package extractor pulls version values out of build descriptor content.
//
// Extraction is a positional substring search, not a markup parser. For every tag the
// first occurrence of "<tag>" and the first occurrence of "</tag>" are located
// independently; the trimmed text between the end of the opening marker and the start of
// the closing marker is the value. When the closing marker occurs before the end of the
// opening marker the value is the empty string.
package extractor

import (
	"strings"

	"github.com/scan-io-git/pomscan/pkg/shared/errors"
)

// Version is a single tag value found in a file.
type Version struct {
	Tag   string
	Value string
}

// Result holds the values found in one file in the order the tags were requested.
type Result struct {
	Versions []Version
}

// NothingFound is returned when none of the requested tags is present.
var NothingFound = Result{}

// Found reports whether at least one tag was found.
func (r Result) Found() bool {
	return len(r.Versions) > 0
}

// Get returns the value recorded for tag.
func (r Result) Get(tag string) (string, bool) {
	for _, v := range r.Versions {
		if v.Tag == tag {
			return v.Value, true
		}
	}
	return "", false
}

// Map returns the result as a tag to value mapping.
func (r Result) Map() map[string]string {
	m := make(map[string]string, len(r.Versions))
	for _, v := range r.Versions {
		m[v.Tag] = v.Value
	}
	return m
}

// ExtractTags searches content for every tag in tags.
// An unexpected failure while scanning yields NothingFound together with an ExtractionError.
func ExtractTags(content string, tags []string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = NothingFound
			err = errors.NewExtractionError(r)
		}
	}()

	var versions []Version
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		value, ok := extractTag(content, tag)
		if !ok {
			continue
		}
		versions = append(versions, Version{Tag: tag, Value: value})
	}

	if len(versions) == 0 {
		return NothingFound, nil
	}
	return Result{Versions: versions}, nil
}

func extractTag(content, tag string) (string, bool) {
	openMarker := "<" + tag + ">"
	closeMarker := "</" + tag + ">"

	start := strings.Index(content, openMarker)
	end := strings.Index(content, closeMarker)
	if start == -1 || end == -1 {
		return "", false
	}

	valueStart := start + len(openMarker)
	if end < valueStart {
		return "", true
	}
	return strings.TrimSpace(content[valueStart:end]), true
}
