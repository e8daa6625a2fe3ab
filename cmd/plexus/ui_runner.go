package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"plexus/internal/analyzer"
	"plexus/internal/model"
	"plexus/internal/ui"
)

type analysisOutcome struct {
	analyzer *analyzer.Analyzer
	analysis *model.Analysis
	err      error
}

// runAnalysis analyzes urls (the whole package when empty), showing the
// progress UI when --ui allows it.
func runAnalysis(cmd *cobra.Command, ws *workspace, urls []string) (*analyzer.Analyzer, *model.Analysis, error) {
	value, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return nil, nil, err
	}
	mode, err := readUIMode(value)
	if err != nil {
		return nil, nil, err
	}
	if shouldUseTUI(mode) {
		return runAnalysisWithUI(cmd.Context(), ws, urls)
	}
	an, err := ws.newAnalyzer(nil)
	if err != nil {
		return nil, nil, err
	}
	a, err := analyze(cmd.Context(), an, urls)
	return an, a, err
}

func analyze(ctx context.Context, an *analyzer.Analyzer, urls []string) (*model.Analysis, error) {
	if len(urls) == 0 {
		return an.AnalyzePackage(ctx)
	}
	return an.Analyze(ctx, urls...)
}

func runAnalysisWithUI(ctx context.Context, ws *workspace, urls []string) (*analyzer.Analyzer, *model.Analysis, error) {
	events := make(chan analyzer.Event, 256)
	an, err := ws.newAnalyzer(analyzer.ChannelSink{Ch: events})
	if err != nil {
		return nil, nil, err
	}
	outcomeCh := make(chan analysisOutcome, 1)

	go func() {
		a, err := analyze(ctx, an, urls)
		outcomeCh <- analysisOutcome{analyzer: an, analysis: a, err: err}
		close(events)
	}()

	progress := ui.NewProgressModel("analyzing "+ws.title(), urls, events)
	program := tea.NewProgram(progress, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// The UI may quit early (ctrl+c); drain so the analysis can finish.
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.analyzer, outcome.analysis, uiErr
	}
	return outcome.analyzer, outcome.analysis, outcome.err
}
