package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/pomscan/internal/config"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// Versions holds version information for the application.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application",
		Run: func(cmd *cobra.Command, args []string) {
			goVersion := GolangVersion
			if goVersion == "unknown" {
				goVersion = runtime.Version()
			}
			printVersionInfo(cmd, Versions{
				Version:       CoreVersion,
				GolangVersion: goVersion,
				BuildTime:     BuildTime,
			})
		},
	}
}

// printVersionInfo prints the version information for the application.
func printVersionInfo(cmd *cobra.Command, v Versions) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Core Version: v%s\n", v.Version)
	fmt.Fprintf(out, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(out, "Build Time: %s\n", v.BuildTime)
}
