package series

// Dataset is a keyed series together with the frame it was measured in.
type Dataset struct {
	// Name identifies the dataset in reports (usually the file name).
	Name string

	// Column names the measured quantity (e.g. "IMEAN").
	Column string

	Frame  Frame
	Series *KeyedSeries
}

// Size returns the number of reflections in the dataset.
func (d *Dataset) Size() int {
	if d.Series == nil {
		return 0
	}
	return d.Series.Size()
}

// DSpacings returns the resolution of every reflection in series order.
func (d *Dataset) DSpacings() []float64 {
	out := make([]float64, d.Size())
	for i := range out {
		key, _ := d.Series.At(i)
		out[i] = d.Frame.Cell.DSpacing(key)
	}
	return out
}

// CommonSets restricts d and other to their shared reflections.
// The frames are passed to Match, so opts.Strict enforces similar symmetry.
func (d *Dataset) CommonSets(other *Dataset, opts MatchOptions) (*Matched, error) {
	opts.FrameA = &d.Frame
	opts.FrameB = &other.Frame
	return Match(d.Series, other.Series, opts)
}
