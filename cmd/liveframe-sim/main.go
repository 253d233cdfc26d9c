// Command liveframe-sim runs the overlay engine against a simulated desktop
// in the terminal.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"liveframe/internal/sim"
)

type options struct {
	scenario  string
	configDir string
	logFile   string
	debug     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "liveframe-sim",
		Short: "Drive the overlay engine against a simulated desktop.",
		Long: `Runs the overlay engine with an in-memory desktop in place of Windows.
Windows, the pointer and hotkeys are driven from the keyboard; the desktop is
drawn scaled to the terminal.`,
		Example:      "liveframe-sim --scenario desk.yaml --log sim.log",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "YAML desktop layout (default: built-in editor and browser)")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", "", "directory for config.json (default: a temporary directory)")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "write engine logs to this file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log at debug level")

	return cmd
}

func newLogger(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func run(opts *options) error {
	sc := sim.DefaultScenario()
	if opts.scenario != "" {
		loaded, err := sim.LoadScenario(opts.scenario)
		if err != nil {
			return err
		}
		sc = loaded
	}

	configDir := opts.configDir
	if configDir == "" {
		dir, err := os.MkdirTemp("", "liveframe-sim-*")
		if err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		defer os.RemoveAll(dir)
		configDir = dir
	}

	logger, err := newLogger(opts.logFile, opts.debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	eng, err := startEngine(sc, configDir, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	_, err = tea.NewProgram(newModel(eng), tea.WithAltScreen()).Run()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
