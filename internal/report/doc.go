// Package report renders computed results into artifacts.
//
// Sink writes PNG charts with go-chart. Artifact names derive from the
// run title: "{title}_dI.png" for the residual trend, "{title}_qq.png"
// for the Q-Q comparison and "{title}.png" for a sweep. Sink only accepts
// computed curves and point sets, never raw input data.
//
// WriteComparison and WriteSweep print the plain-text summaries shown by
// the CLI.
package report
