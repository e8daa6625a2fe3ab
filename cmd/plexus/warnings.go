package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plexus/internal/diag"
)

var warningsCmd = &cobra.Command{
	Use:   "warnings",
	Short: "List the warning codes plexus can report",
	Long:  `Warnings lists every warning code with a short description. Codes can be silenced with [lint].ignore or lint --ignore.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		codes := diag.Codes()
		switch strings.ToLower(format) {
		case "json":
			type entry struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			}
			out := make([]entry, len(codes))
			for i, c := range codes {
				out[i] = entry{Code: string(c), Description: c.Title()}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		case "text":
			for _, c := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-32s %s\n", c, c.Title())
			}
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be text or json)", format)
		}
	},
}

func init() {
	warningsCmd.Flags().String("format", "text", "output format (text|json)")
}
