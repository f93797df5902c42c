// Package series holds keyed measurement series and the matcher that
// restricts two series to their common keys.
//
// A KeyedSeries is an ordered list of (key, value) pairs with unique keys.
// A Dataset couples a series with the calibration Frame (space group and
// unit cell) it was measured in. Match intersects two series; the result
// preserves the iteration order of the first series, so repeated calls on
// the same inputs return identical pairings.
//
// # Symmetry modes
//
// Matching is permissive by default: keys are intersected regardless of
// frame, as the pairwise comparison commands always did. Strict mode fails
// with model.ErrIncompatibleSymmetry when the frames are not similar.
package series
