package bitbucket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/scan-io-git/pomscan/pkg/shared"
)

// FilesService defines the interface for repository content operations.
type FilesService interface {
	FilesURL(ref shared.RepositoryRef) string
	ListDirectory(ctx context.Context, pageURL string) (*DirectoryPage, error)
	FindFiles(ctx context.Context, rootURL string, match FileMatcher) ([]string, error)
	FetchRaw(ctx context.Context, ref shared.RepositoryRef, filePath string) (string, error)
}

// FileMatcher decides which listing entries are reported by FindFiles.
type FileMatcher interface {
	// MatchPath is used for entries returned as plain path strings.
	MatchPath(path string) bool
	// MatchName is used for typed FILE entries.
	MatchName(name string) bool
}

// NameMatcher matches files by their exact name.
// Plain path entries match on suffix, the way the files endpoint has always been treated.
type NameMatcher string

func (m NameMatcher) MatchPath(path string) bool {
	return strings.HasSuffix(path, string(m))
}

func (m NameMatcher) MatchName(name string) bool {
	return name == string(m)
}

// filesService implements the FilesService interface.
type filesService struct {
	*service
}

// NewFilesService initializes a new files service.
func NewFilesService(client *Client) FilesService {
	return &filesService{
		service: &service{client},
	}
}

// FilesURL returns the listing root of a repository.
func (fs *filesService) FilesURL(ref shared.RepositoryRef) string {
	return fmt.Sprintf("%s/projects/%s/repos/%s/files", fs.client.BaseURL, url.PathEscape(ref.ProjectKey), url.PathEscape(ref.RepoSlug))
}

// ListDirectory fetches a single listing page. pageURL is used as is, including any start parameter.
func (fs *filesService) ListDirectory(ctx context.Context, pageURL string) (*DirectoryPage, error) {
	fs.client.Logger.Trace("fetching directory page", "url", pageURL)

	response, err := fs.client.get(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}

	var page DirectoryPage
	if err := unmarshalResponse(response, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// walkFrame is one directory level of the traversal.
type walkFrame struct {
	dirURL  string // listing URL of the directory without pagination
	pageURL string // URL of the page to fetch next
	page    *DirectoryPage
	next    int // index of the next entry of page to process
}

// FindFiles walks the tree below rootURL depth first and returns the paths of matching files in discovery order.
// A directory is drained completely, all of its pages included, before its parent continues with the next entry.
// Duplicates returned by the API are kept.
func (fs *filesService) FindFiles(ctx context.Context, rootURL string, match FileMatcher) ([]string, error) {
	var found []string
	stack := []*walkFrame{{dirURL: rootURL, pageURL: rootURL}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.page == nil {
			page, err := fs.ListDirectory(ctx, top.pageURL)
			if err != nil {
				return nil, fmt.Errorf("error listing %q: %w", top.pageURL, err)
			}
			top.page = page
			top.next = 0
		}

		if top.next < len(top.page.Values) {
			entry := top.page.Values[top.next]
			top.next++

			switch {
			case entry.Plain:
				if match.MatchPath(entry.Raw) {
					found = append(found, entry.Raw)
				}
			case entry.Type == EntryTypeDirectory:
				subURL := joinPath(rootURL, entry.Path.String())
				if onStack(stack, subURL) {
					fs.client.Logger.Warn("directory is its own ancestor, skipping", "url", subURL)
					continue
				}
				stack = append(stack, &walkFrame{dirURL: subURL, pageURL: subURL})
			case entry.Type == EntryTypeFile:
				if match.MatchName(entry.Name) {
					found = append(found, entry.Path.String())
				}
			}
			continue
		}

		if top.page.IsLastPage || top.page.NextPageStart == nil {
			stack = stack[:len(stack)-1]
			continue
		}

		fs.client.Logger.Debug("fetching next page", "directory", top.dirURL, "start", *top.page.NextPageStart)
		nextURL, err := withStart(top.dirURL, *top.page.NextPageStart)
		if err != nil {
			return nil, err
		}
		top.pageURL = nextURL
		top.page = nil
	}

	fs.client.Logger.Debug("finished walking repository tree", "root", rootURL, "found", len(found))
	return found, nil
}

// FetchRaw retrieves the raw content of a single file.
func (fs *filesService) FetchRaw(ctx context.Context, ref shared.RepositoryRef, filePath string) (string, error) {
	path := fmt.Sprintf("/projects/%s/repos/%s/browse/%s?raw",
		url.PathEscape(ref.ProjectKey),
		url.PathEscape(ref.RepoSlug),
		escapePath(filePath),
	)
	fs.client.Logger.Trace("fetching raw file", "repository", ref.String(), "path", filePath)

	response, err := fs.client.getRaw(ctx, path)
	if err != nil {
		return "", err
	}
	return string(response.Body()), nil
}

func onStack(stack []*walkFrame, dirURL string) bool {
	for _, frame := range stack {
		if frame.dirURL == dirURL {
			return true
		}
	}
	return false
}

// joinPath appends a repository relative path to a listing URL, escaping every segment.
func joinPath(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + escapePath(path)
}

func escapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// withStart sets the start query parameter of a listing URL.
func withStart(dirURL string, start int) (string, error) {
	u, err := url.Parse(dirURL)
	if err != nil {
		return "", fmt.Errorf("invalid listing url %q: %w", dirURL, err)
	}
	q := u.Query()
	q.Set("start", strconv.Itoa(start))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
