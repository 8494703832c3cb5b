package cmd

import (
	"github.com/spf13/cobra"
)

// This file contains re-usable sets of flags that should be used when
// creating commands.

// addSchedulerFlags adds the flags governing the launcher/poller pipeline:
// how much work runs at once and when a multi-dimension failure gets
// localized to a single dimension versus reported at the explore.
func addSchedulerFlags(cmd *cobra.Command) {
	cmd.Flags().Int("concurrency", 10, "Maximum number of query tasks in flight at once")
	cmd.Flags().Int("chunk-size", 500, "Window size for subdividing a failed query: once half of it would exceed this many dimensions, it is split into windows of this size instead of halves")
	cmd.Flags().Bool("fail-fast", false, "Report a failing query against its whole explore instead of bisecting to find the offending dimension")
}

// addProfilerFlags adds the flags controlling the runtime profiler table
// emitted after a search completes.
func addProfilerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("profile", false, "Print a table of query runtimes at or above --runtime-threshold")
	cmd.Flags().Float64("runtime-threshold", 5, "Minimum query runtime, in seconds, to include in the profiler table")
}

// addProjectFlags adds the flags identifying which models/explores to validate.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("models", nil, "Restrict validation to these LookML models. Defaults to every model visible to the credentials in use.")
	cmd.Flags().StringSlice("explores", nil, "Restrict validation to these explores, given as model/explore. Defaults to every explore in the selected models.")
}
