package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"plexus/internal/version"
)

const versionTagline = "every element, every import, one graph"

// buildField is one optional line of version output.
type buildField struct {
	flag  string
	label string
	value string
}

type versionPayload struct {
	Tool    string            `json:"tool"`
	Version string            `json:"version"`
	Tagline string            `json:"tagline"`
	Go      string            `json:"go"`
	Build   map[string]string `json:"build,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show plexus build information",
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}

	var fields []buildField
	for _, f := range []buildField{
		{"hash", "commit", version.GitCommit},
		{"message", "message", version.GitMessage},
		{"date", "built", version.BuildDate},
	} {
		on, err := cmd.Flags().GetBool(f.flag)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", f.flag, err)
		}
		if on || full {
			f.value = valueOrUnknown(strings.TrimSpace(f.value))
			fields = append(fields, f)
		}
	}

	if format == "json" {
		return renderVersionJSON(cmd.OutOrStdout(), fields)
	}
	renderVersionPretty(cmd.OutOrStdout(), version.Colored(), fields)
	return nil
}

func renderVersionPretty(out io.Writer, shown string, fields []buildField) {
	fmt.Fprintf(out, "plexus %s: %s\n", shown, versionTagline)
	for _, f := range fields {
		fmt.Fprintf(out, "%-8s %s\n", f.label+":", f.value)
	}
	if len(fields) == 0 {
		fmt.Fprintln(out, "set --hash, --message, --date or --full for build details")
	}
}

func renderVersionJSON(out io.Writer, fields []buildField) error {
	payload := versionPayload{
		Tool:    "plexus",
		Version: version.Plain(),
		Tagline: versionTagline,
		Go:      runtime.Version(),
	}
	if len(fields) > 0 {
		payload.Build = make(map[string]string, len(fields))
		for _, f := range fields {
			payload.Build[f.label] = f.value
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
