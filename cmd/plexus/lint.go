package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plexus/internal/analyzer"
	"plexus/internal/config"
	"plexus/internal/diag"
	"plexus/internal/diagfmt"
	"plexus/internal/model"
	"plexus/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [url...]",
	Short: "Report warnings for the package",
	Long: `Lint analyzes the package (or the given URLs), filters warnings by the
[lint] section of plexus.toml and the flags below, and exits non-zero when an
error remains.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|short|code|json|sarif)")
	lintCmd.Flags().StringSlice("ignore", nil, "warning codes to ignore (adds to [lint].ignore)")
	lintCmd.Flags().String("min-severity", "", "lowest severity to report (info|warning|error)")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Bool("external", false, "also report warnings located in dependency packages")
	lintCmd.Flags().Bool("disk-cache", false, "reuse lint results keyed by the package content hash")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type lintOptions struct {
	format   string
	cfg      config.LintConfig
	external bool
	cache    bool
	fullPath bool
	max      int
}

func readLintOptions(cmd *cobra.Command, base config.LintConfig) (lintOptions, error) {
	opts := lintOptions{cfg: base}
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = strings.ToLower(opts.format)
	if _, ok := diagfmt.ParseVerbosity(opts.format); !ok && opts.format != "json" && opts.format != "sarif" {
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}

	ignore, err := cmd.Flags().GetStringSlice("ignore")
	if err != nil {
		return opts, fmt.Errorf("failed to get ignore flag: %w", err)
	}
	for _, code := range ignore {
		if !diag.Code(code).Known() {
			return opts, fmt.Errorf("unknown warning code %q (see plexus warnings)", code)
		}
	}
	opts.cfg.Ignore = append(append([]string(nil), base.Ignore...), ignore...)

	if cmd.Flags().Changed("min-severity") {
		if opts.cfg.MinSeverity, err = cmd.Flags().GetString("min-severity"); err != nil {
			return opts, fmt.Errorf("failed to get min-severity flag: %w", err)
		}
	}
	if _, err := opts.cfg.Severity(); err != nil {
		return opts, err
	}
	if cmd.Flags().Changed("warnings-as-errors") {
		if opts.cfg.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
			return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
		}
	}
	opts.cache = base.DiskCache
	if cmd.Flags().Changed("disk-cache") {
		if opts.cache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
			return opts, fmt.Errorf("failed to get disk-cache flag: %w", err)
		}
	}
	if opts.external, err = cmd.Flags().GetBool("external"); err != nil {
		return opts, fmt.Errorf("failed to get external flag: %w", err)
	}
	if opts.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if opts.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

func runLint(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	opts, err := readLintOptions(cmd, ws.manifest.Config.Lint)
	if err != nil {
		return err
	}
	defer printTimings(cmd, ws.timer)

	var (
		an       *analyzer.Analyzer
		warnings []diag.Warning
		cache    *analyzer.LintCache
		key      analyzer.Digest
		files    []string
		hit      bool
	)
	// The cache key covers listed package files only, so it is used for
	// whole-package runs.
	useCache := opts.cache && len(args) == 0
	if useCache {
		if cache, err = analyzer.OpenLintCache("plexus"); err != nil {
			return fmt.Errorf("open lint cache: %w", err)
		}
		if an, err = ws.newAnalyzer(nil); err != nil {
			return err
		}
		salt := fmt.Sprintf("%s;external=%t", opts.cfg.Salt(), opts.external)
		if key, files, err = an.PackageDigest(cmd.Context(), salt); err != nil {
			return err
		}
		if warnings, hit, err = cache.Get(key); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "lint cache: %v\n", err)
		}
	}
	if !hit {
		var analysis *model.Analysis
		if an, analysis, err = runAnalysis(cmd, ws, args); err != nil {
			return err
		}
		warnings, err = filterWarnings(analysis.GetWarnings(model.Query{ExternalPackages: opts.external}), opts.cfg)
		if err != nil {
			return err
		}
		if useCache {
			if err := cache.Put(key, files, warnings); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "lint cache: %v\n", err)
			}
		}
	}

	if err := renderWarnings(cmd, ws, an, warnings, opts); err != nil {
		return err
	}
	if failing(warnings, opts.cfg) {
		cmd.SilenceErrors = true
		return errSilent
	}
	return nil
}

// filterWarnings applies the ignore list and minimum severity, then sorts
// and deduplicates what remains.
func filterWarnings(ws []diag.Warning, cfg config.LintConfig) ([]diag.Warning, error) {
	minSev, err := cfg.Severity()
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(0)
	bag.AddAll(ws)
	bag.Filter(func(w diag.Warning) bool {
		return w.Severity >= minSev && !cfg.Ignored(w.Code)
	})
	bag.Sort()
	bag.Dedup()
	return bag.Items(), nil
}

func failing(ws []diag.Warning, cfg config.LintConfig) bool {
	for _, w := range ws {
		if w.Severity == diag.SevError || (cfg.WarningsAsErrors && w.Severity == diag.SevWarning) {
			return true
		}
	}
	return false
}

func renderWarnings(cmd *cobra.Command, ws *workspace, an *analyzer.Analyzer, warnings []diag.Warning, opts lintOptions) error {
	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeAuto
	if opts.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	shown := warnings
	if opts.max > 0 && len(shown) > opts.max {
		shown = shown[:opts.max]
	}

	switch opts.format {
	case "json":
		return diagfmt.JSON(out, warnings, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          ws.manifest.Root,
			Max:              opts.max,
		})
	case "sarif":
		return diagfmt.Sarif(out, warnings, diagfmt.SarifRunMeta{
			ToolName:       "plexus",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
		})
	}

	color, err := useColor(cmd)
	if err != nil {
		return err
	}
	verbosity, _ := diagfmt.ParseVerbosity(opts.format)
	fs := an.FileSet()
	if err := diagfmt.Pretty(out, shown, fs, diagfmt.PrettyOpts{
		Color:     color,
		Verbosity: verbosity,
		Context:   1,
		PathMode:  pathMode,
		BaseDir:   ws.manifest.Root,
		Width:     120,
	}); err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", lintTally(warnings, len(shown)))
	}
	return nil
}

func lintTally(ws []diag.Warning, shown int) string {
	var errs, warns, infos int
	for _, w := range ws {
		switch w.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	msg := fmt.Sprintf("%d error(s), %d warning(s), %d info", errs, warns, infos)
	if shown < len(ws) {
		msg += fmt.Sprintf(" (%d not shown, raise --max-diagnostics)", len(ws)-shown)
	}
	return msg
}
