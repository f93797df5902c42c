// Package stats implements the numeric core of the pairwise comparison:
// five-number summaries, the residual trend smoother and the rank
// (quantile-quantile) comparator.
//
// Every function is pure. Inputs are never modified; outputs are freshly
// allocated. Failures are *model.Error values:
//
//	summary, err := stats.Summarize(values, stats.QuantileLinear)
//	if errors.Is(err, model.ErrEmptyInput) {
//	    // nothing to summarize
//	}
//
// # Quantile conventions
//
// QuantileLinear interpolates linearly between order statistics at
// h = (n-1)p (Hyndman-Fan type 7). QuantileTukey uses Tukey's hinges: the
// quartiles are the medians of the lower and upper halves, the middle
// value belonging to both halves when n is odd. QuantileEmpirical is the
// inverse of the empirical CDF as computed by gonum.
//
// # Trend smoothing
//
// Smooth sorts the pairs by their mean and averages the residual over a
// centred window. Near the ends the window is clipped to the valid range,
// so the output has one point per input pair and never averages padding.
//
// # Rank comparison
//
// RankCompare sorts both series independently. Point i pairs the i-th
// order statistics, which is a Q-Q plot when both series have the same
// length. The advisory axis bounds trim the extreme ranks for display only.
package stats
