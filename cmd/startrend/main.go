package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rohankatakam/startrend/internal/config"
	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/logging"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile     string
	verbose     bool
	logger      *logrus.Logger
	closeLogger func() error
	cfg         *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil && logger != nil {
		logger.Debugf("command failed:\n%s", errors.Detail(err))
	}
	if closeLogger != nil {
		_ = closeLogger()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for everything else
func exitCode(err error) int {
	if stderrors.Is(err, errors.ErrConfig) {
		return 2
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "startrend",
	Short: "startrend - find GitHub repositories gaining stars fastest",
	Long: `startrend searches GitHub for repositories and ranks them by how many
stars they gained inside a date window, using the public event history.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, err.Error())
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, closeLogger, err = logging.New(logging.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			OutputFile: cfg.Log.File,
		})
		if err != nil {
			return errors.ConfigErrorf("invalid log settings: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .startrend/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`startrend {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(configCmd)
}
