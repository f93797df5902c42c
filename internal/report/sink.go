package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dagewa/wedged-lamellae/internal/model"
	"github.com/dagewa/wedged-lamellae/internal/stats"
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// Artifact suffixes.
const (
	SuffixDiff  = "_dI"
	SuffixQQ    = "_qq"
	SuffixSweep = ""
	Extension   = ".png"
)

// Sink renders charts into a directory.
type Sink struct {
	// Dir receives the artifacts. Empty means the working directory.
	Dir string

	// Width and Height size a single chart panel in pixels.
	Width  int
	Height int

	// DiffXRange and DiffYRange fix the ΔI plot axes as [min, max].
	// Empty means fit to the data.
	DiffXRange []float64
	DiffYRange []float64
}

// ArtifactPath returns the file written for title and suffix.
// Path separators in the title are replaced so that the artifact always
// lands in Dir.
func (s *Sink) ArtifactPath(title, suffix string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(title)
	return filepath.Join(s.Dir, name+suffix+Extension)
}

// DiffPlot renders the residual scatter and its moving average.
func (s *Sink) DiffPlot(title string, trend *stats.Trend) (string, error) {
	if trend == nil || len(trend.Curve) == 0 {
		return "", fmt.Errorf("diff plot %q: no data", title)
	}

	xs, ys := model.XY(trend.Scatter)
	xr := fixedOrFit(s.DiffXRange, xs)
	yr := fixedOrFit(s.DiffYRange, ys)

	scatter := clip(trend.Scatter, xr, yr)

	series := zeroAxes(xr, yr)
	if len(scatter) > 0 {
		sx, sy := model.XY(scatter)
		series = append(series, chart.ContinuousSeries{
			Name:    "ΔI",
			XValues: sx,
			YValues: sy,
			Style:   pointStyle(chart.ColorBlue.WithAlpha(40)),
		})
	}
	for i, run := range clipPolyline(trend.Curve, xr, yr) {
		name := ""
		if i == 0 {
			name = fmt.Sprintf("moving average (%d)", trend.Window)
		}
		cx, cy := model.XY(run)
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: cx,
			YValues: cy,
			Style:   lineStyle(chart.ColorRed.WithAlpha(128)),
		})
	}

	graph := s.newChart(title, "I", "ΔI", xr, yr, series)
	path := s.ArtifactPath(title, SuffixDiff)
	return path, writeChart(path, graph)
}

// QQPlot renders the Q-Q pairs within their advisory bounds, with the
// y = x reference line.
func (s *Sink) QQPlot(title, xLabel, yLabel string, qq *stats.QQ) (string, error) {
	if qq == nil || len(qq.X) == 0 {
		return "", fmt.Errorf("qq plot %q: no data", title)
	}

	r := padRange(qq.Bounds.Lower, qq.Bounds.Upper)
	points := clip(qq.Points(), r, r)

	series := append(zeroAxes(r, r), chart.ContinuousSeries{
		Name:    "y = x",
		XValues: []float64{r.Min, r.Max},
		YValues: []float64{r.Min, r.Max},
		Style:   lineStyle(chart.ColorBlack.WithAlpha(190)),
	})
	if len(points) > 0 {
		px, py := model.XY(points)
		series = append(series, chart.ContinuousSeries{
			Name:    "quantiles",
			XValues: px,
			YValues: py,
			Style:   pointStyle(chart.ColorBlue),
		})
	}

	side := min(s.width(), s.height())
	graph := s.newChart(title, xLabel, yLabel, r, r, series)
	graph.Width, graph.Height = side, side
	path := s.ArtifactPath(title, SuffixQQ)
	return path, writeChart(path, graph)
}

// SweepPlot renders three side-by-side panels: CC1/2 against 1/d² for
// every member, the weighted average against the parameter, and the
// total observation count against the parameter.
func (s *Sink) SweepPlot(title string, sw *sweep.Sweep) (string, error) {
	if sw == nil || len(sw.Points) == 0 {
		return "", fmt.Errorf("sweep plot %q: no data", title)
	}
	colors := coolColors(len(sw.Points))

	var curves []chart.Series
	var allX, allY []float64
	for i, p := range sw.Points {
		cx, cy := model.XY(p.Curve())
		allX = append(allX, cx...)
		allY = append(allY, cy...)
		curves = append(curves, chart.ContinuousSeries{
			Name:    p.Name,
			XValues: cx,
			YValues: cy,
			Style:   lineStyle(colors[i]),
		})
	}
	panel1 := s.newChart("CC½", "1/d²", "CC½", fitRange(allX), fitRange(allY), curves)
	panel1.Elements = []chart.Renderable{chart.Legend(&panel1)}

	pedestals := sw.Parameters()

	var avg []chart.Series
	_, ay := model.XY(sw.AverageTrend)
	for i, p := range sw.Points {
		avg = append(avg, chart.ContinuousSeries{
			Name:    p.Name,
			XValues: []float64{p.Parameter},
			YValues: []float64{p.WeightedAverage},
			Style:   pointStyle(colors[i]),
		})
	}
	panel2 := s.newChart("Average CC½", "Pedestal", "CC½", fitRange(pedestals), fitRange(ay), avg)

	nx, ny := model.XY(sw.CountTrend)
	counts := []chart.Series{chart.ContinuousSeries{
		Name:    "N(obs)",
		XValues: nx,
		YValues: ny,
		Style:   lineStyle(chart.ColorBlue),
	}}
	panel3 := s.newChart("N(obs)", "Pedestal", "N(obs)", fitRange(pedestals), fitRange(ny), counts)

	img, err := composeRow(panel1, panel2, panel3)
	if err != nil {
		return "", fmt.Errorf("sweep plot %q: %w", title, err)
	}
	path := s.ArtifactPath(title, SuffixSweep)
	return path, writePNG(path, img)
}

func (s *Sink) width() int {
	if s.Width > 0 {
		return s.Width
	}
	return 640
}

func (s *Sink) height() int {
	if s.Height > 0 {
		return s.Height
	}
	return 480
}

func (s *Sink) newChart(title, xName, yName string, xr, yr *chart.ContinuousRange, series []chart.Series) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      s.width(),
		Height:     s.height(),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xName, Range: xr},
		YAxis:      chart.YAxis{Name: yName, Range: yr},
		Series:     series,
	}
}

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    2,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: col,
	}
}

// zeroAxes draws the lines x = 0 and y = 0 where they fall inside the
// plotted area.
func zeroAxes(xr, yr *chart.ContinuousRange) []chart.Series {
	style := lineStyle(chart.ColorAlternateGray)
	var out []chart.Series
	if yr.Min <= 0 && yr.Max >= 0 {
		out = append(out, chart.ContinuousSeries{XValues: []float64{xr.Min, xr.Max}, YValues: []float64{0, 0}, Style: style})
	}
	if xr.Min <= 0 && xr.Max >= 0 {
		out = append(out, chart.ContinuousSeries{XValues: []float64{0, 0}, YValues: []float64{yr.Min, yr.Max}, Style: style})
	}
	return out
}

// coolColors samples the cyan-to-magenta colormap at n even steps.
func coolColors(n int) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		f := 0.0
		if n > 1 {
			f = float64(i) / float64(n-1)
		}
		out[i] = drawing.Color{R: uint8(math.Round(255 * f)), G: uint8(math.Round(255 * (1 - f))), B: 255, A: 255}
	}
	return out
}

func writeChart(path string, graph chart.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// composeRow renders each chart and places the images side by side.
func composeRow(graphs ...chart.Chart) (image.Image, error) {
	var panels []image.Image
	width, height := 0, 0
	for _, g := range graphs {
		var buf bytes.Buffer
		if err := g.Render(chart.PNG, &buf); err != nil {
			return nil, err
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return nil, err
		}
		panels = append(panels, img)
		width += img.Bounds().Dx()
		height = max(height, img.Bounds().Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	x := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), p, b.Min, draw.Over)
		x += b.Dx()
	}
	return out, nil
}
