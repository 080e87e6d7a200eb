package scan

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pomscan/internal/bitbucket"
	"github.com/scan-io-git/pomscan/internal/config"
	"github.com/scan-io-git/pomscan/internal/metrics"
	"github.com/scan-io-git/pomscan/internal/report"
	"github.com/scan-io-git/pomscan/internal/scanner"
	"github.com/scan-io-git/pomscan/pkg/shared/errors"
)

// RunOptions holds the arguments for the scan command.
type RunOptions struct {
	Repositories []string
	ReposFile    string
	VersionTags  []string
	TargetFile   string
	OutputPath   string
	Format       string
	Jobs         int
	MetricsFile  string
	FailOnError  bool
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	logger      hclog.Logger
	scanOptions RunOptions

	exampleScanUsage = `  # Scan the repositories listed in config.yml
  pomscan scan

  # Scan two repositories and write the report to a custom location
  pomscan scan -o /tmp/versions.csv EVT/attendee-order PT/public-api

  # Scan a repository given by its web URL, looking for a single property
  pomscan scan -t postgresql.version https://stash.example.com/projects/LS/repos/ls-adr/browse

  # Fail the run when any repository could not be scanned
  pomscan scan --fail-on-error`
)

// ScanCmd represents the command for scanning repositories.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--output/-o PATH] [--format csv|jsonl] [--jobs/-j N] [--tag/-t TAG]... [--repo/-r KEY/slug]... [REPOSITORY...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Report version properties from pom.xml files of Bitbucket repositories",
	Long: `Walk every configured repository, fetch each pom.xml it contains and report the values of
the configured version properties, one row per repository, file and property.

Failures of single files or whole repositories are logged and the scan continues.`,
	RunE: runScanCommand,
}

// Init initializes the global configuration variable and the logger of the command.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid scan arguments: %w", err), 1)
	}

	opts, err := resolveOptions(AppConfig, &scanOptions, args)
	if err != nil {
		logger.Error("failed to read repository list", "path", scanOptions.ReposFile, "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to read repository list: %w", err), 1)
	}

	if err := config.ValidateCredentials(&AppConfig.Bitbucket); err != nil {
		logger.Error("bitbucket is not configured", "error", err)
		return errors.NewCommandError(err, 1)
	}

	refs, err := prepareScanTargets(opts.Repositories)
	if err != nil {
		logger.Error("failed to prepare scan targets", "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to prepare scan targets: %w", err), 1)
	}

	runID := uuid.New().String()

	client, err := bitbucket.New(AppConfig, logger.Named("bitbucket"), AppConfig.Bitbucket.URL, bitbucket.AuthInfo{
		Username: AppConfig.Bitbucket.Username,
		Token:    AppConfig.Bitbucket.Token,
	})
	if err != nil {
		return errors.NewCommandError(fmt.Errorf("failed to initialize Bitbucket client: %w", err), 1)
	}

	writer, err := report.New(opts.OutputPath, opts.Format, runID)
	if err != nil {
		logger.Error("failed to create report", "path", opts.OutputPath, "error", err)
		return errors.NewCommandError(err, 1)
	}

	m := metrics.New()
	s := scanner.New(client.Files, writer, opts.TargetFile, opts.Jobs, runID, m, logger)
	summary := s.ScanAll(cmd.Context(), refs, opts.VersionTags)

	if err := writer.Close(); err != nil {
		logger.Error("failed to close report", "path", opts.OutputPath, "error", err)
		return errors.NewCommandError(fmt.Errorf("failed to close report: %w", err), 1)
	}
	logger.Info("results saved to file", "path", opts.OutputPath, "records", summary.Records)

	if opts.MetricsFile != "" {
		if err := m.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "error", err)
		}
	}

	if opts.FailOnError && summary.FailedRepositories > 0 {
		return errors.NewCommandError(fmt.Errorf("%d of %d repositories failed", summary.FailedRepositories, summary.Repositories), 2)
	}

	logger.Info("scan command completed successfully")
	return nil
}

func init() {
	ScanCmd.Flags().StringArrayVarP(&scanOptions.Repositories, "repo", "r", nil, "Repository to scan as KEY/slug or Bitbucket URL. Overrides scan.repositories from the config.")
	ScanCmd.Flags().StringVar(&scanOptions.ReposFile, "repos-file", "", "File with one repository per line. Combined with --repo and arguments.")
	ScanCmd.Flags().StringArrayVarP(&scanOptions.VersionTags, "tag", "t", nil, "Version property to look for. Overrides scan.version_tags from the config.")
	ScanCmd.Flags().StringVar(&scanOptions.TargetFile, "file", "", "Name of the build descriptor to look for (default pom.xml).")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the report file (default versions.csv).")
	ScanCmd.Flags().StringVar(&scanOptions.Format, "format", "", "Report format: csv or jsonl (default csv).")
	ScanCmd.Flags().IntVarP(&scanOptions.Jobs, "jobs", "j", 0, "Number of files fetched concurrently per repository (default 10).")
	ScanCmd.Flags().StringVar(&scanOptions.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file.")
	ScanCmd.Flags().BoolVar(&scanOptions.FailOnError, "fail-on-error", false, "Exit with code 2 when any repository failed.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
