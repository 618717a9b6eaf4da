// Package chart renders the comparison chart of daily confirmed cases.
// It owns all presentation policy - colors, highlighting, axis window,
// output format - and consumes only the plot-ready sequences the series
// package exposes.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/enzet/COVID-19/series"
)

// The shared x axis is clamped to this window of days around each
// region's 100th case, matching the range where growth curves are
// comparable.
const (
	minOffset = -10
	maxOffset = 70
)

// Trace colors. Background regions are washed out, the focus region is
// drawn over everything else in blue.
var (
	backgroundColor = color.Gray{0xCC}
	focusColor      = color.RGBA{R: 0x44, G: 0x66, B: 0xCC, A: 0xFF}
)

// Options control chart presentation.
type Options struct {
	// Focus names the region drawn last and over every other trace.
	Focus string

	// Window is the smoothing window passed to each series transform.
	Window int

	// BackgroundBelow renders regions whose latest confirmed count is
	// under this value as unlabeled background traces.
	BackgroundBelow int

	// LogScale plots log10 of the daily counts; non-positive samples
	// are dropped as they have no logarithm.
	LogScale bool

	// Width and Height are the output dimensions in pixels.
	Width, Height int
}

// Render writes an SVG chart comparing the daily-incidence curves of
// every region in the dataset, in ranked z-order: background traces
// first, then labeled regions, then the focus region.
func Render(w io.Writer, dataset *series.Dataset, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	focus := dataset.Canonicalize(opts.Focus)

	var background, labeled, highlight lines
	var focusFound bool
	for _, s := range dataset.Ranked() {
		points, err := s.Transform(opts.Window)
		if err != nil {
			return fmt.Errorf("chart: transform for %q error:%w", s.Region, err)
		}

		switch {
		case s.Region == focus && focus != "":
			highlight.add(s.Region, points, opts.LogScale)
			focusFound = true
		case s.TotalConfirmed() < opts.BackgroundBelow:
			background.add(s.Region, points, opts.LogScale)
		default:
			labeled.add(s.Region, points, opts.LogScale)
		}
	}
	if focus != "" && !focusFound {
		return fmt.Errorf("chart: focus region %q: %w", opts.Focus, series.ErrNotFound)
	}

	// Ranked order already runs most to least affected; drawing in that
	// order leaves the most affected regions on top within each layer.
	var plot *gg.Plot
	layer := func(l lines, colorOf func(p *gg.Plot) string) {
		if l.empty() {
			return
		}
		if plot == nil {
			plot = gg.NewPlot(l.grouping())
			plot.SetScale("x", gg.NewLinearScaler().SetMin(minOffset).SetMax(maxOffset))
		} else {
			plot.SetData(l.grouping())
		}
		plot.Add(gg.LayerLines{X: "day", Y: "cases", Color: colorOf(plot)})
	}
	layer(background, func(p *gg.Plot) string { return p.Const(backgroundColor) })
	layer(labeled, func(p *gg.Plot) string { return "region" })
	layer(highlight, func(p *gg.Plot) string { return p.Const(focusColor) })

	if plot == nil {
		return fmt.Errorf("chart: no plottable data")
	}
	return plot.WriteSVG(w, opts.Width, opts.Height)
}

// lines accumulates the column data for one chart layer.
type lines struct {
	days    []float64
	cases   []float64
	regions []string
}

func (l *lines) add(region string, points []series.Point, logScale bool) {
	for _, pt := range points {
		if pt.Offset < minOffset || pt.Offset > maxOffset {
			continue
		}
		v := pt.Value
		if logScale {
			if v <= 0 {
				continue
			}
			v = math.Log10(v)
		}
		l.days = append(l.days, float64(pt.Offset))
		l.cases = append(l.cases, v)
		l.regions = append(l.regions, region)
	}
}

func (l *lines) empty() bool {
	return len(l.days) == 0
}

// grouping builds a gg table grouped by region, one group per trace.
func (l *lines) grouping() table.Grouping {
	tab := new(table.Builder).
		Add("day", l.days).
		Add("cases", l.cases).
		Add("region", l.regions).
		Done()
	return table.GroupBy(tab, "region")
}
