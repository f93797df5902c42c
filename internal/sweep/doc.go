// Package sweep aggregates per-bin CC1/2 tables across a parameter sweep.
//
// Each dataset of the sweep contributes a table of resolution bins, each
// bin holding an observation count and a CC1/2 value. Aggregate reduces
// every table to one count-weighted average and orders the datasets by
// their sweep parameter (the pedestal).
//
// Flagged bins (marked unreliable by the scaling program) still contribute
// to the weighted average. The flag is kept on the Bin for reports only.
package sweep
