package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"plexus/internal/diag"
	"plexus/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [url...]",
	Short: "Analyze the package and summarize what was found",
	Long: `Analyze loads the given package-relative URLs (every package file when none
are given), follows their imports and prints a summary of documents, features
and warnings.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "text", "output format (text|json)")
	analyzeCmd.Flags().Bool("external", false, "count features from dependency packages too")
}

// analysisSummary is the machine-readable form of the analyze output.
type analysisSummary struct {
	Generation string         `json:"generation"`
	Documents  int            `json:"documents"`
	Failed     []string       `json:"failed,omitempty"`
	Roots      []string       `json:"roots"`
	Features   map[string]int `json:"features"`
	Warnings   map[string]int `json:"warnings"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	external, err := cmd.Flags().GetBool("external")
	if err != nil {
		return fmt.Errorf("failed to get external flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}

	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	_, analysis, err := runAnalysis(cmd, ws, args)
	if err != nil {
		return err
	}
	summary := summarize(analysis, external)
	defer printTimings(cmd, ws.timer)

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	renderSummary(cmd.OutOrStdout(), ws.title(), summary)
	return nil
}

func summarize(a *model.Analysis, external bool) analysisSummary {
	s := analysisSummary{
		Generation: a.Generation.String(),
		Features:   make(map[string]int),
		Warnings:   make(map[string]int),
	}
	for _, url := range a.URLs() {
		out, _ := a.Outcome(url)
		if out.Warning != nil {
			s.Failed = append(s.Failed, url)
			continue
		}
		s.Documents++
	}
	for _, root := range a.Roots() {
		s.Roots = append(s.Roots, root.URL())
	}
	q := model.Query{ExternalPackages: external}
	for _, f := range a.GetFeatures(q) {
		for _, k := range f.Kinds().Slice() {
			s.Features[k.String()]++
		}
	}
	for _, w := range a.GetWarnings(q) {
		s.Warnings[strings.ToLower(w.Severity.String())]++
	}
	return s
}

func renderSummary(out io.Writer, title string, s analysisSummary) {
	fmt.Fprintf(out, "%s: %d documents", title, s.Documents)
	if len(s.Failed) > 0 {
		fmt.Fprintf(out, ", %d failed", len(s.Failed))
	}
	fmt.Fprintf(out, " (generation %s)\n", s.Generation)
	for _, url := range s.Failed {
		fmt.Fprintf(out, "  failed: %s\n", url)
	}
	if len(s.Features) > 0 {
		fmt.Fprintln(out, "features:")
		for _, tag := range model.KindTags() {
			if n := s.Features[tag]; n > 0 {
				fmt.Fprintf(out, "  %-22s %d\n", tag, n)
			}
		}
	}
	fmt.Fprintf(out, "warnings: %d error, %d warning, %d info\n",
		s.Warnings[strings.ToLower(diag.SevError.String())],
		s.Warnings[strings.ToLower(diag.SevWarning.String())],
		s.Warnings[strings.ToLower(diag.SevInfo.String())])
}
