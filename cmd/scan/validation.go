package scan

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/pomscan/internal/config"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptions, args []string) error {
	if options.Jobs < 0 || options.Jobs > 100 {
		return fmt.Errorf("the 'jobs' flag must be between 1 and 100")
	}

	if options.Format != "" {
		if err := config.ValidateOutputFormat(strings.ToLower(options.Format)); err != nil {
			return err
		}
	}

	if strings.ContainsAny(options.TargetFile, "/\\") {
		return fmt.Errorf("the 'file' flag must be a file name, not a path")
	}

	if err := config.ValidateVersionTags(options.VersionTags); err != nil {
		return fmt.Errorf("invalid 'tag' flag: %w", err)
	}

	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("empty repository argument")
		}
	}

	return nil
}
