package presentation

import (
	"fmt"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"emotion-detector/domain/emotion"
)

const (
	chartTitle       = "Emotion Probability Distribution"
	chartTitleHeight = 22
	chartValueHeight = 16
	chartLabelHeight = 20
	chartBarFill     = 0.7
)

var (
	chartAxisColor  = color.NRGBA{R: 0x34, G: 0x49, B: 0x5e, A: 0xff}
	chartGridColor  = color.NRGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0x80}
	chartEmptyAlpha = uint8(0x80)
)

// shouldAnnotate reports whether a bar of value v (in percent) gets a value label.
func shouldAnnotate(v, threshold float64) bool {
	return v > threshold
}

// formatPercent renders a chart value label.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// barRect is the position and size of one bar inside the chart.
type barRect struct {
	pos  fyne.Position
	size fyne.Size
}

// plotArea returns the origin and size of the region bars are drawn in.
func plotArea(size fyne.Size) (fyne.Position, fyne.Size) {
	top := float32(chartTitleHeight + chartValueHeight)
	h := size.Height - top - chartLabelHeight
	if h < 0 {
		h = 0
	}
	return fyne.NewPos(0, top), fyne.NewSize(size.Width, h)
}

// layoutBars places one bar per value on a 0-100 scale. Values outside the
// scale are clamped.
func layoutBars(size fyne.Size, values []float64) []barRect {
	if len(values) == 0 {
		return nil
	}
	origin, area := plotArea(size)
	slot := area.Width / float32(len(values))
	width := slot * chartBarFill

	bars := make([]barRect, len(values))
	for i, v := range values {
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		h := area.Height * float32(v/100)
		bars[i] = barRect{
			pos:  fyne.NewPos(origin.X+float32(i)*slot+(slot-width)/2, origin.Y+area.Height-h),
			size: fyne.NewSize(width, h),
		}
	}
	return bars
}

// DistributionChart draws one bar per emotion label on a 0-100% scale.
type DistributionChart struct {
	widget.BaseWidget

	mu        sync.RWMutex
	values    []float64 // nil before the first result
	palette   *emotion.Palette
	threshold float64
}

// NewDistributionChart creates an empty chart. Bars above threshold percent
// are annotated with their value.
func NewDistributionChart(palette *emotion.Palette, threshold float64) *DistributionChart {
	if palette == nil {
		palette = emotion.NewPalette()
	}
	c := &DistributionChart{palette: palette, threshold: threshold}
	c.ExtendBaseWidget(c)
	return c
}

// SetPrediction shows the distribution of p.
func (c *DistributionChart) SetPrediction(p *emotion.Prediction) {
	if p == nil {
		c.Clear()
		return
	}
	values := make([]float64, 0, emotion.NumLabels)
	for _, l := range emotion.Labels() {
		values = append(values, p.Percent(l))
	}
	c.mu.Lock()
	c.values = values
	c.mu.Unlock()
	c.Refresh()
}

// Clear returns the chart to its empty placeholder.
func (c *DistributionChart) Clear() {
	c.mu.Lock()
	c.values = nil
	c.mu.Unlock()
	c.Refresh()
}

// Values returns the displayed percentages, or nil when empty.
func (c *DistributionChart) Values() []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.values == nil {
		return nil
	}
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// CreateRenderer implements fyne.Widget.
func (c *DistributionChart) CreateRenderer() fyne.WidgetRenderer {
	r := &chartRenderer{
		chart:    c,
		title:    canvas.NewText(chartTitle, chartAxisColor),
		baseline: canvas.NewLine(chartAxisColor),
	}
	r.title.TextStyle = fyne.TextStyle{Bold: true}
	r.title.Alignment = fyne.TextAlignCenter

	for i := 0; i < 4; i++ {
		r.grid = append(r.grid, canvas.NewLine(chartGridColor))
	}
	for _, l := range emotion.Labels() {
		r.bars = append(r.bars, canvas.NewRectangle(c.palette.Color(l)))

		value := canvas.NewText("", chartAxisColor)
		value.TextSize = 11
		value.Alignment = fyne.TextAlignCenter
		r.values = append(r.values, value)

		label := canvas.NewText(l.Title(), chartAxisColor)
		label.TextSize = 11
		label.Alignment = fyne.TextAlignCenter
		r.labels = append(r.labels, label)
	}
	r.Refresh()
	return r
}

type chartRenderer struct {
	chart    *DistributionChart
	title    *canvas.Text
	baseline *canvas.Line
	grid     []*canvas.Line
	bars     []*canvas.Rectangle
	values   []*canvas.Text
	labels   []*canvas.Text
	size     fyne.Size
}

func (r *chartRenderer) Layout(size fyne.Size) {
	r.size = size

	r.title.Move(fyne.NewPos(0, 0))
	r.title.Resize(fyne.NewSize(size.Width, chartTitleHeight))

	origin, area := plotArea(size)
	for i, g := range r.grid {
		y := origin.Y + area.Height*float32(i)/float32(len(r.grid))
		g.Position1 = fyne.NewPos(origin.X, y)
		g.Position2 = fyne.NewPos(origin.X+area.Width, y)
	}
	r.baseline.Position1 = fyne.NewPos(origin.X, origin.Y+area.Height)
	r.baseline.Position2 = fyne.NewPos(origin.X+area.Width, origin.Y+area.Height)

	// Bars keep their slot even when empty so labels stay aligned.
	values := r.chart.Values()
	if values == nil {
		values = make([]float64, len(r.bars))
	}
	slot := area.Width / float32(len(r.bars))
	for i, b := range layoutBars(size, values) {
		r.bars[i].Move(b.pos)
		r.bars[i].Resize(b.size)

		r.values[i].Move(fyne.NewPos(origin.X+float32(i)*slot, b.pos.Y-chartValueHeight))
		r.values[i].Resize(fyne.NewSize(slot, chartValueHeight))

		r.labels[i].Move(fyne.NewPos(origin.X+float32(i)*slot, origin.Y+area.Height+2))
		r.labels[i].Resize(fyne.NewSize(slot, chartLabelHeight-2))
	}
}

func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(len(r.bars))*48, chartTitleHeight+chartValueHeight+chartLabelHeight+120)
}

func (r *chartRenderer) Refresh() {
	values := r.chart.Values()
	labels := emotion.Labels()

	for i, bar := range r.bars {
		c := r.chart.palette.Color(labels[i])
		if values == nil {
			c.A = chartEmptyAlpha
			r.values[i].Text = ""
		} else if shouldAnnotate(values[i], r.chart.threshold) {
			r.values[i].Text = formatPercent(values[i])
		} else {
			r.values[i].Text = ""
		}
		bar.FillColor = c
	}

	r.Layout(r.size)
	for _, o := range r.Objects() {
		o.Refresh()
	}
}

func (r *chartRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, 2+len(r.grid)+3*len(r.bars))
	objs = append(objs, r.title)
	for _, g := range r.grid {
		objs = append(objs, g)
	}
	objs = append(objs, r.baseline)
	for i := range r.bars {
		objs = append(objs, r.bars[i], r.values[i], r.labels[i])
	}
	return objs
}

func (r *chartRenderer) Destroy() {}
