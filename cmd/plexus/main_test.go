package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"plexus/internal/config"
	"plexus/internal/diag"
	"plexus/internal/source"
)

func warningAt(code diag.Code, sev diag.Severity, file string, line uint32) diag.Warning {
	rng := source.Range{File: file, Start: source.Position{Line: line}, End: source.Position{Line: line, Column: 4}}
	return diag.Warning{Code: code, Severity: sev, Message: string(code), SourceRange: rng}
}

func TestFilterWarnings(t *testing.T) {
	in := []diag.Warning{
		warningAt(diag.OverridingPrivate, diag.SevInfo, "b.js", 1),
		warningAt(diag.UnknownSuperclass, diag.SevError, "b.js", 4),
		warningAt(diag.CouldNotResolveReference, diag.SevWarning, "a.html", 2),
		warningAt(diag.UnknownSuperclass, diag.SevError, "b.js", 4),
	}
	tests := []struct {
		name string
		cfg  config.LintConfig
		want []diag.Code
	}{
		{"default min warning", config.LintConfig{}, []diag.Code{diag.CouldNotResolveReference, diag.UnknownSuperclass}},
		{"info", config.LintConfig{MinSeverity: "info"}, []diag.Code{diag.CouldNotResolveReference, diag.OverridingPrivate, diag.UnknownSuperclass}},
		{"errors only", config.LintConfig{MinSeverity: "error"}, []diag.Code{diag.UnknownSuperclass}},
		{"ignored", config.LintConfig{Ignore: []string{string(diag.UnknownSuperclass)}}, []diag.Code{diag.CouldNotResolveReference}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterWarnings(in, tt.cfg)
			if err != nil {
				t.Fatalf("filterWarnings: %v", err)
			}
			var codes []diag.Code
			for _, w := range got {
				codes = append(codes, w.Code)
			}
			if len(codes) != len(tt.want) {
				t.Fatalf("got %v, want %v", codes, tt.want)
			}
			for i := range codes {
				if codes[i] != tt.want[i] {
					t.Errorf("got %v, want %v", codes, tt.want)
					break
				}
			}
		})
	}

	if _, err := filterWarnings(in, config.LintConfig{MinSeverity: "loud"}); err == nil {
		t.Errorf("expected an error for an unknown severity")
	}
}

func TestFailing(t *testing.T) {
	warn := []diag.Warning{warningAt(diag.CouldNotResolveReference, diag.SevWarning, "a.html", 0)}
	errs := []diag.Warning{warningAt(diag.UnknownSuperclass, diag.SevError, "a.js", 0)}
	tests := []struct {
		name string
		ws   []diag.Warning
		cfg  config.LintConfig
		want bool
	}{
		{"clean", nil, config.LintConfig{}, false},
		{"warning", warn, config.LintConfig{}, false},
		{"warning as error", warn, config.LintConfig{WarningsAsErrors: true}, true},
		{"error", errs, config.LintConfig{}, true},
	}
	for _, tt := range tests {
		if got := failing(tt.ws, tt.cfg); got != tt.want {
			t.Errorf("%s: failing = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLintTally(t *testing.T) {
	ws := []diag.Warning{
		warningAt(diag.UnknownSuperclass, diag.SevError, "a.js", 0),
		warningAt(diag.CouldNotResolveReference, diag.SevWarning, "a.js", 1),
		warningAt(diag.CouldNotResolveReference, diag.SevWarning, "a.js", 2),
	}
	if got, want := lintTally(ws, 3), "1 error(s), 2 warning(s), 0 info"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := lintTally(ws, 1); !strings.Contains(got, "2 not shown") {
		t.Errorf("got %q, want a hint about hidden warnings", got)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("readUIMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderFeaturesYAML(t *testing.T) {
	views := []featureView{{
		Kinds:       []string{"element", "polymer-element"},
		Identifiers: []string{"x-foo", "XFoo"},
		TagName:     "x-foo",
		Properties:  []string{"label"},
	}}
	var buf bytes.Buffer
	if err := renderFeatures(&buf, "yaml", views); err != nil {
		t.Fatalf("renderFeatures: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- kinds:", "    - element", "  tag_name: x-foo", "    - label"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "superclass") {
		t.Errorf("empty fields should be omitted:\n%s", out)
	}

	buf.Reset()
	if err := renderFeatures(&buf, "text", views); err != nil {
		t.Fatalf("renderFeatures: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "x-foo, XFoo") {
		t.Errorf("text output = %q", buf.String())
	}
}

// writePackage lays files out under a temp dir and returns it.
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// resetFlags puts every flag back to its default; rootCmd is shared
// between tests.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--ui", "off", "--quiet", "--color", "off"))
	err := rootCmd.Execute()
	runCleanups()
	rootCmd.SetArgs(nil)
	return out.String(), err
}

func TestAnalyzeCommandJSON(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"index.html":  `<link rel="import" href="x-foo.html">`,
		"x-foo.html":  `<dom-module id="x-foo"><template></template></dom-module>`,
		"theme.css":   `:root { --accent: red; }`,
		"plexus.toml": "[package]\nname = \"fixture\"\n",
	})
	out, err := execute(t, "analyze", "--root", dir, "--format", "json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var s analysisSummary
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if s.Documents != 3 {
		t.Errorf("documents = %d, want 3", s.Documents)
	}
	if s.Features["dom-module"] != 1 {
		t.Errorf("features = %v, want one dom-module", s.Features)
	}
	if len(s.Roots) != 2 {
		t.Errorf("roots = %v, want index.html and theme.css", s.Roots)
	}
}

func TestLintCommandFailsOnMissingImport(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"index.html": `<link rel="import" href="missing.html">`,
	})
	out, err := execute(t, "lint", "--root", dir, "--format", "json", "--min-severity", "warning", "--disk-cache=false")
	if !errors.Is(err, errSilent) {
		t.Fatalf("lint err = %v, want errSilent", err)
	}
	if !strings.Contains(out, string(diag.CouldNotLoad)) {
		t.Errorf("output does not mention %s:\n%s", diag.CouldNotLoad, out)
	}

	out, err = execute(t, "lint", "--root", dir, "--format", "json", "--ignore", string(diag.CouldNotLoad))
	if err != nil {
		t.Fatalf("lint with ignore: %v\n%s", err, out)
	}
}

func TestLintCommandRejectsUnknownCode(t *testing.T) {
	dir := writePackage(t, map[string]string{"index.html": "<p></p>"})
	_, err := execute(t, "lint", "--root", dir, "--ignore", "no-such-code")
	if err == nil || !strings.Contains(err.Error(), "unknown warning code") {
		t.Errorf("err = %v, want unknown warning code", err)
	}
}

func TestLintDiskCacheKeepsSnippets(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := writePackage(t, map[string]string{
		"index.html": "<link rel=\"import\" href=\"missing.html\">\n",
	})
	args := []string{"lint", "--root", dir, "--format", "pretty", "--disk-cache"}

	fresh, err := execute(t, args...)
	if !errors.Is(err, errSilent) {
		t.Fatalf("first run err = %v, want errSilent", err)
	}
	cached, err := execute(t, args...)
	if !errors.Is(err, errSilent) {
		t.Fatalf("cached run err = %v, want errSilent", err)
	}
	if !strings.Contains(fresh, `href="missing.html"`) {
		t.Errorf("first run has no snippet:\n%s", fresh)
	}
	if cached != fresh {
		t.Errorf("cached output differs\n got: %s\nwant: %s", cached, fresh)
	}
}
