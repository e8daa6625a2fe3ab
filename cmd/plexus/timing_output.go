package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"plexus/internal/observ"
)

// printTimings writes the phase summary to stderr when --timings is set.
func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer == nil {
		return
	}
	writeTimings(cmd.ErrOrStderr(), timer)
}

func writeTimings(out io.Writer, timer *observ.Timer) {
	if out == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
