package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"plexus/internal/version"
)

// errSilent makes main exit non-zero after the command already reported
// what went wrong. Commands returning it set SilenceErrors.
var errSilent = errors.New("exit status 1")

var rootCmd = &cobra.Command{
	Use:   "plexus",
	Short: "Static analysis for web component packages",
	Long: `Plexus scans the markup, script and style files of a component package,
links elements, mixins and behaviors across imports and reports what it finds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanups = append(cleanups, stopTracing, stopProfiling)
		return nil
	},
}

// cleanups run after the command, including when it fails.
var cleanups []func()

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(warningsCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("root", ".", "package directory (plexus.toml is looked up from here)")
	flags.String("config", "", "explicit path to plexus.toml")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("jobs", 0, "max parallel load/scan workers (0=auto)")
	flags.Int("max-diagnostics", 100, "maximum number of warnings to show (0=all)")
	flags.String("ui", "auto", "progress UI (auto|on|off)")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command and exits with status 1 when it fails.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Plain()

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
