package scan

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/pomscan/internal/config"
	"github.com/scan-io-git/pomscan/pkg/shared"
	"github.com/scan-io-git/pomscan/pkg/shared/files"
	"github.com/scan-io-git/pomscan/pkg/shared/vcsurl"
)

// resolveOptions merges flags and positional arguments over the configuration.
// Flags win; repositories from --repo, --repos-file and positional arguments replace the configured list.
func resolveOptions(cfg *config.Config, options *RunOptions, args []string) (RunOptions, error) {
	repositories := append([]string{}, options.Repositories...)
	if options.ReposFile != "" {
		listed, err := files.ReadRepositoryList(options.ReposFile)
		if err != nil {
			return RunOptions{}, err
		}
		repositories = append(repositories, listed...)
	}

	resolved := RunOptions{
		Repositories: append(repositories, args...),
		ReposFile:    options.ReposFile,
		VersionTags:  options.VersionTags,
		TargetFile:   config.SetThen(options.TargetFile, config.GetTargetFile(cfg)),
		OutputPath:   config.SetThen(options.OutputPath, config.SetThen(cfg.Output.Path, config.DefaultOutputPath)),
		Format:       strings.ToLower(config.SetThen(options.Format, config.SetThen(cfg.Output.Format, config.DefaultOutputFormat))),
		Jobs:         config.SetThen(options.Jobs, config.GetJobs(cfg)),
		MetricsFile:  config.SetThen(options.MetricsFile, cfg.Metrics.Textfile),
		FailOnError:  options.FailOnError,
	}

	if len(resolved.Repositories) == 0 {
		resolved.Repositories = cfg.Scan.Repositories
	}
	if len(resolved.VersionTags) == 0 {
		resolved.VersionTags = config.GetVersionTags(cfg)
	}
	return resolved, nil
}

// prepareScanTargets parses the repository references in the given order.
func prepareScanTargets(repositories []string) ([]shared.RepositoryRef, error) {
	if len(repositories) == 0 {
		return nil, fmt.Errorf("no repositories to scan, set scan.repositories in the config or pass them as arguments")
	}

	refs := make([]shared.RepositoryRef, 0, len(repositories))
	for _, raw := range repositories {
		ref, err := vcsurl.ParseRepositoryRef(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
