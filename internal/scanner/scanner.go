package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/semaphore"

	"github.com/scan-io-git/pomscan/internal/bitbucket"
	"github.com/scan-io-git/pomscan/internal/extractor"
	"github.com/scan-io-git/pomscan/internal/metrics"
	"github.com/scan-io-git/pomscan/internal/report"
	"github.com/scan-io-git/pomscan/pkg/shared"
	"github.com/scan-io-git/pomscan/pkg/shared/errors"
)

// File outcomes used for logging and metrics.
const (
	FileOK     = "ok"
	FileEmpty  = "empty"
	FileFailed = "failed"
)

// FileSource is the subset of the Bitbucket files service the scanner needs.
type FileSource interface {
	FilesURL(ref shared.RepositoryRef) string
	FindFiles(ctx context.Context, rootURL string, match bitbucket.FileMatcher) ([]string, error)
	FetchRaw(ctx context.Context, ref shared.RepositoryRef, filePath string) (string, error)
}

// FileResult is the outcome of fetching and scanning a single file.
type FileResult struct {
	Path     string
	Versions extractor.Result
	Err      error
}

// Summary aggregates the outcome of a scan run.
type Summary struct {
	RunID              string
	Repositories       int
	FailedRepositories int
	Files              int
	FailedFiles        int
	Records            int
}

// Scanner scans repositories one at a time and fetches the files of each repository concurrently.
type Scanner struct {
	files          FileSource    // Source of listings and file content
	writer         report.Writer // Single owner of the report output
	targetFile     string        // Name of the build descriptor to look for
	concurrentJobs int           // Size of the fetch worker pool
	runID          string        // Identifier stamped on every log line of the run
	metrics        *metrics.Metrics
	logger         hclog.Logger
}

// New creates a new Scanner instance with the provided configuration.
func New(files FileSource, writer report.Writer, targetFile string, concurrentJobs int, runID string, m *metrics.Metrics, logger hclog.Logger) *Scanner {
	if concurrentJobs <= 0 {
		concurrentJobs = 1
	}
	if m == nil {
		m = metrics.New()
	}
	return &Scanner{
		files:          files,
		writer:         writer,
		targetFile:     targetFile,
		concurrentJobs: concurrentJobs,
		runID:          runID,
		metrics:        m,
		logger:         logger.With("run_id", runID),
	}
}

// ScanAll scans every repository in order and writes the found versions to the report.
// A failing repository is logged and skipped; it never stops the run.
func (s *Scanner) ScanAll(ctx context.Context, refs []shared.RepositoryRef, tags []string) Summary {
	started := time.Now()
	summary := Summary{RunID: s.runID}
	s.logger.Info("scan starting", "repositories", len(refs), "goroutines", s.concurrentJobs, "tags", tags)

	for _, ref := range refs {
		summary.Repositories++
		s.logger.Info("scanning repository", "project", ref.ProjectKey, "repository", ref.RepoSlug)

		stats, err := s.scanRepository(ctx, ref, tags)
		summary.Files += stats.files
		summary.FailedFiles += stats.failedFiles
		summary.Records += stats.records

		if err != nil {
			summary.FailedRepositories++
			s.metrics.RepositoryScanned(true)
			s.logger.Error("repository scan failed", "project", ref.ProjectKey, "repository", ref.RepoSlug, "error", errors.NewRepositoryScanError(ref, err))
			continue
		}
		s.metrics.RepositoryScanned(false)
		s.logger.Info("repository scanned", "project", ref.ProjectKey, "repository", ref.RepoSlug,
			"files", stats.files, "failed_files", stats.failedFiles, "records", stats.records)
	}

	s.metrics.ScanFinished(started)
	s.logger.Info("scan finished",
		"repositories", summary.Repositories,
		"failed_repositories", summary.FailedRepositories,
		"files", summary.Files,
		"records", summary.Records,
		"duration", time.Since(started).Round(time.Millisecond),
	)
	return summary
}

type repoStats struct {
	files       int
	failedFiles int
	records     int
}

// scanRepository discovers the build descriptors of one repository, scans them and writes the records.
func (s *Scanner) scanRepository(ctx context.Context, ref shared.RepositoryRef, tags []string) (repoStats, error) {
	var stats repoStats

	rootURL := s.files.FilesURL(ref)
	paths, err := s.files.FindFiles(ctx, rootURL, bitbucket.NameMatcher(s.targetFile))
	if err != nil {
		return stats, fmt.Errorf("failed to discover %s files: %w", s.targetFile, err)
	}
	stats.files = len(paths)
	s.logger.Debug("discovered files", "repository", ref.String(), "total", len(paths))

	results := s.dispatch(ctx, ref, paths, tags)

	// Results are awaited in submission order.
	for _, ch := range results {
		res := <-ch
		if res.Err != nil {
			stats.failedFiles++
			s.metrics.FileProcessed(FileFailed)
			s.logger.Error("failed to process file", "project", ref.ProjectKey, "repository", ref.RepoSlug, "path", res.Path, "error", res.Err)
			continue
		}
		if !res.Versions.Found() {
			s.metrics.FileProcessed(FileEmpty)
			s.logger.Debug("no version tags found", "repository", ref.String(), "path", res.Path)
			continue
		}
		s.metrics.FileProcessed(FileOK)

		records := toRecords(ref, res)
		if err := s.writer.Write(records...); err != nil {
			return stats, fmt.Errorf("failed to write records for %q: %w", res.Path, err)
		}
		stats.records += len(records)
		s.metrics.RecordsWritten(len(records))
	}

	if err := s.writer.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush report: %w", err)
	}
	return stats, nil
}

// dispatch submits one task per path before any result is awaited.
// At most concurrentJobs tasks run at the same time.
func (s *Scanner) dispatch(ctx context.Context, ref shared.RepositoryRef, paths []string, tags []string) []<-chan FileResult {
	sem := semaphore.NewWeighted(int64(s.concurrentJobs))
	results := make([]<-chan FileResult, len(paths))

	for i, path := range paths {
		out := make(chan FileResult, 1)
		results[i] = out

		go func(i int, path string, out chan<- FileResult) {
			if err := sem.Acquire(ctx, 1); err != nil {
				out <- FileResult{Path: path, Err: err}
				return
			}
			defer sem.Release(1)

			s.logger.Trace("goroutine started", "#", i+1, "path", path)
			out <- s.fetchAndExtract(ctx, ref, path, tags)
		}(i, path, out)
	}
	return results
}

// fetchAndExtract fetches one file and extracts the requested tags from it.
func (s *Scanner) fetchAndExtract(ctx context.Context, ref shared.RepositoryRef, path string, tags []string) FileResult {
	content, err := s.files.FetchRaw(ctx, ref, path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	versions, err := extractor.ExtractTags(content, tags)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Versions: versions}
}

func toRecords(ref shared.RepositoryRef, res FileResult) []shared.VersionRecord {
	records := make([]shared.VersionRecord, 0, len(res.Versions.Versions))
	for _, v := range res.Versions.Versions {
		records = append(records, shared.VersionRecord{
			ProjectKey: ref.ProjectKey,
			RepoSlug:   ref.RepoSlug,
			FilePath:   res.Path,
			Tag:        v.Tag,
			Value:      v.Value,
		})
	}
	return records
}
