package series

import (
	"github.com/dagewa/wedged-lamellae/internal/model"
)

// MatchOptions controls Match.
type MatchOptions struct {
	// Strict makes Match fail when the frames are not similar.
	Strict bool

	// Tolerance is used by strict mode. Zero means DefaultTolerance.
	Tolerance Tolerance

	// FrameA and FrameB are the frames of the two series. Strict mode
	// requires both.
	FrameA *Frame
	FrameB *Frame
}

// Matched holds the common pairs of two series.
//
// Keys[i], A[i] and B[i] belong together. IndexA[i] and IndexB[i] are the
// positions of Keys[i] in the source series, for lookups of per-key
// metadata such as resolution. SigmaA and SigmaB are set only when both
// series carry uncertainties.
type Matched struct {
	Keys   []model.Key
	A      []float64
	B      []float64
	SigmaA []float64
	SigmaB []float64
	IndexA []int
	IndexB []int
}

// Len returns the number of common pairs.
func (m *Matched) Len() int {
	return len(m.Keys)
}

// Swap returns the same pairs with the roles of A and B exchanged.
// Order is unchanged.
func (m *Matched) Swap() *Matched {
	return &Matched{
		Keys:   append([]model.Key(nil), m.Keys...),
		A:      append([]float64(nil), m.B...),
		B:      append([]float64(nil), m.A...),
		SigmaA: cloneSigmas(m.SigmaB),
		SigmaB: cloneSigmas(m.SigmaA),
		IndexA: append([]int(nil), m.IndexB...),
		IndexB: append([]int(nil), m.IndexA...),
	}
}

// Match intersects a and b on their keys.
//
// Pairs are emitted in the iteration order of a. Match fails with
// ErrEmptyInput if either series is nil, ErrIncompatibleSymmetry in strict
// mode when the frames differ, and ErrEmptyIntersection when no key is
// shared.
func Match(a, b *KeyedSeries, opts MatchOptions) (*Matched, error) {
	if a == nil || b == nil {
		return nil, model.NewError(model.ErrCodeEmptyInput, "match", "missing series")
	}

	if opts.Strict {
		if opts.FrameA == nil || opts.FrameB == nil {
			return nil, model.NewError(model.ErrCodeIncompatibleSymmetry, "match",
				"strict matching requires both frames")
		}
		tol := opts.Tolerance
		if tol == (Tolerance{}) {
			tol = DefaultTolerance
		}
		if !opts.FrameA.IsSimilar(*opts.FrameB, tol) {
			return nil, model.NewError(model.ErrCodeIncompatibleSymmetry, "match",
				"frames are not similar").
				WithDetail("a", opts.FrameA.String()).
				WithDetail("b", opts.FrameB.String())
		}
	}

	var sa, sb []float64
	if a.HasSigmas() && b.HasSigmas() {
		sa, sb = a.Sigmas(), b.Sigmas()
	}

	m := &Matched{}
	for i, key := range a.keys {
		j, ok := b.index[key]
		if !ok {
			continue
		}
		m.Keys = append(m.Keys, key)
		m.A = append(m.A, a.values[i])
		m.B = append(m.B, b.values[j])
		if sa != nil {
			m.SigmaA = append(m.SigmaA, sa[i])
			m.SigmaB = append(m.SigmaB, sb[j])
		}
		m.IndexA = append(m.IndexA, i)
		m.IndexB = append(m.IndexB, j)
	}

	if len(m.Keys) == 0 {
		return nil, model.NewError(model.ErrCodeEmptyIntersection, "match",
			"no common keys among %d and %d", a.Size(), b.Size())
	}
	return m, nil
}

func cloneSigmas(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append([]float64(nil), s...)
}
