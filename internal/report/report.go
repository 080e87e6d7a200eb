package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scan-io-git/pomscan/pkg/shared"
	"github.com/scan-io-git/pomscan/pkg/shared/files"
)

// Header is the first row of every CSV report.
var Header = []string{"Project Key", "Repo Slug", "File Path", "Version Tag", "Version"}

// Writer appends version records to a report. It is not safe for concurrent use;
// the orchestrator owns it and performs every write.
type Writer interface {
	Write(records ...shared.VersionRecord) error
	Flush() error
	Close() error
}

// New creates the report file at path, truncating an existing one, and returns a writer for format.
func New(path, format, runID string) (Writer, error) {
	path, err := files.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand report path: %w", err)
	}
	if err := files.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file %q: %w", path, err)
	}

	w, err := NewWriter(file, format, runID)
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// NewWriter returns a report writer over out. Closing the writer closes out.
func NewWriter(out io.WriteCloser, format, runID string) (Writer, error) {
	switch format {
	case "csv":
		return newCSVWriter(out)
	case "jsonl":
		return newJSONLinesWriter(out, runID), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

type csvWriter struct {
	out io.Closer
	w   *csv.Writer
}

func newCSVWriter(out io.WriteCloser) (*csvWriter, error) {
	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	return &csvWriter{out: out, w: w}, nil
}

func (c *csvWriter) Write(records ...shared.VersionRecord) error {
	for _, r := range records {
		if err := c.w.Write([]string{r.ProjectKey, r.RepoSlug, r.FilePath, r.Tag, r.Value}); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	return nil
}

func (c *csvWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func (c *csvWriter) Close() error {
	flushErr := c.Flush()
	if err := c.out.Close(); err != nil {
		return err
	}
	return flushErr
}

// jsonLine is one record of a JSON Lines report.
type jsonLine struct {
	RunID string `json:"run_id,omitempty"`
	shared.VersionRecord
}

type jsonLinesWriter struct {
	out   io.Closer
	buf   *bufio.Writer
	enc   *json.Encoder
	runID string
}

func newJSONLinesWriter(out io.WriteCloser, runID string) *jsonLinesWriter {
	buf := bufio.NewWriter(out)
	return &jsonLinesWriter{
		out:   out,
		buf:   buf,
		enc:   json.NewEncoder(buf),
		runID: runID,
	}
}

func (j *jsonLinesWriter) Write(records ...shared.VersionRecord) error {
	for _, r := range records {
		if err := j.enc.Encode(jsonLine{RunID: j.runID, VersionRecord: r}); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}
	return nil
}

func (j *jsonLinesWriter) Flush() error {
	return j.buf.Flush()
}

func (j *jsonLinesWriter) Close() error {
	flushErr := j.Flush()
	if err := j.out.Close(); err != nil {
		return err
	}
	return flushErr
}
