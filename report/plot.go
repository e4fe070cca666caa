// Package report renders fitted models.
package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/leslie/dataio"
	"github.com/YuminosukeSato/leslie/linear"
	"github.com/YuminosukeSato/leslie/pkg/errors"
	"github.com/YuminosukeSato/leslie/pkg/log"
)

// DefaultCurvePoints is the number of grid points used to draw the fitted curve.
const DefaultCurvePoints = 200

type plotConfig struct {
	title  string
	width  vg.Length
	height vg.Length
	points int
	logger log.Logger
}

// PlotOption configures RenderFit.
type PlotOption func(*plotConfig)

// WithTitle sets the plot title.
func WithTitle(title string) PlotOption {
	return func(c *plotConfig) { c.title = title }
}

// WithSize sets the canvas size.
func WithSize(width, height vg.Length) PlotOption {
	return func(c *plotConfig) {
		c.width = width
		c.height = height
	}
}

// WithCurvePoints sets the number of grid points of the fitted curve.
func WithCurvePoints(n int) PlotOption {
	return func(c *plotConfig) { c.points = n }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) PlotOption {
	return func(c *plotConfig) { c.logger = l }
}

var supportedFormats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

// RenderFit draws the samples and the fitted curve of ls and saves the plot
// to path. The image format follows the file extension.
func RenderFit(path string, samples *dataio.Samples, ls *linear.LeastSquares, opts ...PlotOption) error {
	cfg := plotConfig{
		title:  "least squares fit",
		width:  6 * vg.Inch,
		height: 4 * vg.Inch,
		points: DefaultCurvePoints,
		logger: log.GetLoggerWithName("report"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !supportedFormats[ext] {
		return errors.NewValidationError("plot", "unsupported image format", ext)
	}
	if cfg.points < 2 {
		return errors.NewValidationError("points", "must be at least 2", cfg.points)
	}

	p, err := newFitPlot(samples, ls, cfg)
	if err != nil {
		return err
	}
	if err := p.Save(cfg.width, cfg.height, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}

	cfg.logger.Info("plot rendered",
		log.OperationKey, log.OperationRenderPlot,
		log.SourceKey, path,
		log.SamplesKey, samples.Len(),
	)
	return nil
}

func newFitPlot(samples *dataio.Samples, ls *linear.LeastSquares, cfg plotConfig) (*plot.Plot, error) {
	sol := ls.Solution()
	if sol == nil {
		return nil, errors.NewNotFittedError("LeastSquares", "RenderFit")
	}
	if samples == nil || samples.Len() == 0 {
		return nil, errors.NewInvalidInputError("RenderFit", "no samples", -1, errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, samples.Len())
	for i := range pts {
		pts[i].X = samples.X[i]
		pts[i].Y = samples.Y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build sample scatter")
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)
	p.Legend.Add("samples", scatter)

	lines, err := fittedCurve(samples.X, ls, sol.Coefficients, cfg.points)
	if err != nil {
		return nil, err
	}
	for i, xy := range lines {
		line, err := plotter.NewLine(xy)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build fitted curve")
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: 200, A: 255}
		p.Add(line)
		if i == 0 {
			p.Legend.Add(strings.Join(ls.Space().Labels(), " + "), line)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// fittedCurve evaluates the fit on a uniform grid spanning xs. Grid points
// outside the domain of some basis function split the curve into segments.
func fittedCurve(xs []float64, ls *linear.LeastSquares, beta *mat.VecDense, n int) ([]plotter.XYs, error) {
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	grid := make([]float64, n)
	floats.Span(grid, lo, hi)

	var (
		segments []plotter.XYs
		current  plotter.XYs
	)
	for _, x := range grid {
		row, err := ls.Space().EvaluateRow(x)
		if err != nil {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		y := mat.Dot(row, beta)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		current = append(current, plotter.XY{X: x, Y: y})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	if len(segments) == 0 {
		return nil, errors.NewValueError("RenderFit", fmt.Sprintf("fitted curve is undefined on [%g, %g]", lo, hi))
	}
	return segments, nil
}
