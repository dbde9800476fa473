package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aquasmart/app"
	"aquasmart/confs"
	"aquasmart/logging"

	"github.com/spf13/cobra"
)

var (
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "aquasmart",
	Short: "Smart irrigation dashboard",
	Long: `aquasmart monitors fields, plans irrigation and controls pumps
against the irrigation backend.

Run "aquasmart serve" for the web dashboard or "aquasmart tui" for the
terminal view.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, tuiCmd, loginCmd, logoutCmd, whoamiCmd, planCmd)
}

// newApp loads the configuration and builds the components. CLI commands
// log to stderr only when verbose.
func newApp(quiet bool) (*app.App, error) {
	cfg, err := confs.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	} else if quiet {
		level = "error"
	}
	logger, err := logging.New(level, cfg.Log.Dev || quiet)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, logger)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return a.Serve(ctx)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
