package ui

import (
	"errors"
	"strings"
	"testing"

	"plexus/internal/analyzer"
)

func TestProgressModelTracksDiscoveredFiles(t *testing.T) {
	m := NewProgressModel("analyze", []string{"index.html"}, nil).(*progressModel)

	events := []analyzer.Event{
		{URL: "index.html", Stage: analyzer.StageLoad, Status: analyzer.StatusWorking},
		{URL: "index.html", Stage: analyzer.StageLoad, Status: analyzer.StatusDone},
		{URL: "index.html", Stage: analyzer.StageScan, Status: analyzer.StatusDone},
		{URL: "x-foo.js", Stage: analyzer.StageLoad, Status: analyzer.StatusQueued},
		{URL: "missing.html", Stage: analyzer.StageLoad, Status: analyzer.StatusError, Err: errors.New("not found")},
		{URL: "missing.html", Stage: analyzer.StageLoad, Status: analyzer.StatusError},
		{Stage: analyzer.StageResolve, Status: analyzer.StatusWorking},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	if len(m.items) != 3 {
		t.Fatalf("items = %d, want 3", len(m.items))
	}
	if m.finished != 2 || m.failed != 1 {
		t.Errorf("finished=%d failed=%d, want 2 and 1", m.finished, m.failed)
	}
	tests := map[string]string{
		"index.html":   "done",
		"x-foo.js":     "queued",
		"missing.html": "error",
	}
	for url, want := range tests {
		if got := m.items[m.index[url]].status; got != want {
			t.Errorf("%s: status %q, want %q", url, got, want)
		}
	}
	view := m.View()
	for _, want := range []string{"[2/3]", "(resolving)", "1 file(s) failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.html", 20, "short.html"},
		{"bower_components/paper-button/paper-button.html", 12, "bower_com..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
