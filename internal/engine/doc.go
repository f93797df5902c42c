// Package engine runs the two analysis pipelines.
//
// ComparePair intersects two datasets and derives everything the reports
// need from the matched pairs: five-number summaries, the residual trend,
// the Q-Q pairing and the pair statistics. AggregateSweep reduces the bin
// tables of a parameter sweep to one weighted CC1/2 per member.
//
// The engine never reads files, flags or the environment. Callers resolve
// a config.Config and load the data first. Every call is synchronous and
// keeps no state between calls; CompareBatch fans independent pairs out
// over an errgroup and returns results in input order.
package engine
