package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pomscan/cmd/scan"
	"github.com/scan-io-git/pomscan/cmd/version"
	"github.com/scan-io-git/pomscan/internal/config"
	"github.com/scan-io-git/pomscan/internal/logger"
	"github.com/scan-io-git/pomscan/pkg/shared/errors"
)

var (
	cfgFile   string
	envFile   string
	AppConfig *config.Config
	Logger    hclog.Logger
	rootCmd   = &cobra.Command{
		Use:                   "pomscan [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Pomscan reports Maven version properties across Bitbucket repositories.",
		Long: `Pomscan walks a list of Bitbucket Server repositories, finds every pom.xml,
reads a fixed set of version properties from each and writes them to a CSV or JSON Lines report.`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the configuration file (default is config.yml).")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file with POMSCAN_* variables (default is .env if present).")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(scan.ScanCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)

		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "loading env file failed - %v\n", err)
		os.Exit(1)
	}

	var err error
	AppConfig, err = loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing config file function is crashed - %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	Logger = logger.NewLogger(AppConfig, "core")
	scan.Init(AppConfig, Logger.Named("scan"))
	version.Init(AppConfig)
}

// loadEnvFile loads variables from the .env file without overriding the ones already set.
// A missing default file is not an error.
func loadEnvFile() error {
	if envFile != "" {
		return godotenv.Load(envFile)
	}
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadConfig reads the configuration file. Without an explicit --config a missing
// config.yml yields an empty configuration, everything can then come from flags and env.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.NewConfig(cfgFile)
	}

	cfg, err := config.NewConfig(config.DefaultConfigPath)
	if stderrors.Is(err, fs.ErrNotExist) {
		return &config.Config{}, nil
	}
	return cfg, err
}
