package bitbucket

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry types reported by the browse API.
const (
	EntryTypeDirectory = "DIRECTORY"
	EntryTypeFile      = "FILE"
)

// Response wraps API responses that include pagination details.
type Response[T any] struct {
	NextPageStart *int `json:"nextPageStart"`
	IsLastPage    bool `json:"isLastPage"`
	Limit         int  `json:"limit"`
	Size          int  `json:"size"`
	Start         int  `json:"start"`
	Values        []T  `json:"values"`
}

// DirectoryPage is one page of a directory listing.
type DirectoryPage = Response[DirectoryEntry]

// ErrorList encapsulates potential API error responses.
type ErrorList struct {
	Errors []Error `json:"errors"`
}

// Error provides detailed information about an error occurred during API interactions.
type Error struct {
	Context       string `json:"context"`
	Message       string `json:"message"`
	ExceptionName string `json:"exceptionName"`
}

// DirectoryEntry is a single listing value. The files endpoint returns plain path strings,
// the browse endpoint returns typed objects.
type DirectoryEntry struct {
	Plain bool   `json:"-"`
	Raw   string `json:"-"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Path  File   `json:"path"`
}

// UnmarshalJSON accepts both the plain string and the object form of an entry.
func (e *DirectoryEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = DirectoryEntry{Plain: true, Raw: s}
		return nil
	}

	type entry DirectoryEntry
	var out entry
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to decode directory entry: %w", err)
	}
	*e = DirectoryEntry(out)
	if e.Name == "" {
		e.Name = e.Path.Name
	}
	return nil
}

// File represents a path within a repository showing its structure and metadata.
type File struct {
	Components []string `json:"components"`
	Parent     string   `json:"parent"`
	Name       string   `json:"name"`
	Extension  string   `json:"extension"`
	ToString   string   `json:"toString"`
}

// UnmarshalJSON accepts the path object as well as a bare path string.
func (f *File) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = File{ToString: s}
		return nil
	}

	type file File
	var out file
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to decode path: %w", err)
	}
	*f = File(out)
	return nil
}

// String returns the path relative to the repository root.
func (f File) String() string {
	return f.ToString
}
