package series

import (
	"fmt"
	"math"
	"strings"

	"github.com/dagewa/wedged-lamellae/internal/model"
)

// UnitCell holds direct cell parameters. Lengths are in Ångström,
// angles in degrees.
type UnitCell struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	C     float64 `json:"c"`
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Frame is the calibration frame a series was measured in.
type Frame struct {
	SpaceGroup string   `json:"space_group"`
	Cell       UnitCell `json:"unit_cell"`
}

// Tolerance bounds the difference between two similar unit cells.
type Tolerance struct {
	// RelativeLength is the allowed relative difference of a, b and c.
	RelativeLength float64

	// AbsoluteAngle is the allowed difference of α, β and γ in degrees.
	AbsoluteAngle float64
}

// DefaultTolerance matches the cctbx defaults for is_similar_symmetry.
var DefaultTolerance = Tolerance{RelativeLength: 0.01, AbsoluteAngle: 1.0}

func (c UnitCell) String() string {
	return fmt.Sprintf("%.3f %.3f %.3f %.2f %.2f %.2f", c.A, c.B, c.C, c.Alpha, c.Beta, c.Gamma)
}

// Volume returns the cell volume.
func (c UnitCell) Volume() float64 {
	ca, cb, cg := cosDeg(c.Alpha), cosDeg(c.Beta), cosDeg(c.Gamma)
	return c.A * c.B * c.C * math.Sqrt(1-ca*ca-cb*cb-cg*cg+2*ca*cb*cg)
}

// Validate checks that the cell describes a real lattice.
func (c UnitCell) Validate() error {
	if c.A <= 0 || c.B <= 0 || c.C <= 0 {
		return model.NewError(model.ErrCodeInvalidParameter, "unit cell", "non-positive cell length in %s", c)
	}
	for _, ang := range []float64{c.Alpha, c.Beta, c.Gamma} {
		if ang <= 0 || ang >= 180 {
			return model.NewError(model.ErrCodeInvalidParameter, "unit cell", "angle %g out of range in %s", ang, c)
		}
	}
	if v := c.Volume(); math.IsNaN(v) || v <= 0 {
		return model.NewError(model.ErrCodeInvalidParameter, "unit cell", "cell angles %s do not close", c)
	}
	return nil
}

// IsSimilar reports whether two cells agree within tol.
func (c UnitCell) IsSimilar(o UnitCell, tol Tolerance) bool {
	lengths := [][2]float64{{c.A, o.A}, {c.B, o.B}, {c.C, o.C}}
	for _, l := range lengths {
		if math.Abs(l[0]-l[1]) > tol.RelativeLength*math.Max(l[0], l[1]) {
			return false
		}
	}
	angles := [][2]float64{{c.Alpha, o.Alpha}, {c.Beta, o.Beta}, {c.Gamma, o.Gamma}}
	for _, a := range angles {
		if math.Abs(a[0]-a[1]) > tol.AbsoluteAngle {
			return false
		}
	}
	return true
}

// DSpacing returns the resolution d of the reflection with index key.
// The origin has infinite d.
func (c UnitCell) DSpacing(key model.Key) float64 {
	if key.IsOrigin() {
		return math.Inf(1)
	}
	invDSq := c.invDSquared(key)
	if invDSq <= 0 {
		return math.Inf(1)
	}
	return 1 / math.Sqrt(invDSq)
}

// invDSquared evaluates h·G*·h with the reciprocal metric tensor G*.
func (c UnitCell) invDSquared(key model.Key) float64 {
	sa, sb, sg := sinDeg(c.Alpha), sinDeg(c.Beta), sinDeg(c.Gamma)
	ca, cb, cg := cosDeg(c.Alpha), cosDeg(c.Beta), cosDeg(c.Gamma)
	v := c.Volume()

	as := c.B * c.C * sa / v
	bs := c.A * c.C * sb / v
	cs := c.A * c.B * sg / v
	cosAlphaStar := (cb*cg - ca) / (sb * sg)
	cosBetaStar := (ca*cg - cb) / (sa * sg)
	cosGammaStar := (ca*cb - cg) / (sa * sb)

	h, k, l := float64(key.H()), float64(key.K()), float64(key.L())
	return h*h*as*as + k*k*bs*bs + l*l*cs*cs +
		2*h*k*as*bs*cosGammaStar +
		2*k*l*bs*cs*cosAlphaStar +
		2*h*l*as*cs*cosBetaStar
}

// IsSimilar reports whether two frames share a space group and similar cells.
func (f Frame) IsSimilar(o Frame, tol Tolerance) bool {
	return normalizeSymbol(f.SpaceGroup) == normalizeSymbol(o.SpaceGroup) && f.Cell.IsSimilar(o.Cell, tol)
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s)", f.SpaceGroup, f.Cell)
}

// normalizeSymbol compares Hermann-Mauguin symbols ignoring spacing and case.
func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
