package imagegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lox/weatherlog/internal/models"
)

var ErrNoData = errors.New("no daily logs to chart")

// Chart dimensions match the Open Graph size so a chart can be shared as-is.
const (
	ChartWidth  = 1200
	ChartHeight = 630
)

// Plot area, in pixels. The right margin holds the legend.
const (
	plotLeft   = 70
	plotRight  = ChartWidth - 330
	plotTop    = 50
	plotBottom = ChartHeight - 60

	legendX      = plotRight + 30
	legendLineH  = 18
	legendSwatch = 12
)

var (
	axisColor  = color.RGBA{170, 175, 190, 255}
	gridColor  = color.RGBA{50, 55, 80, 255}
	labelColor = color.RGBA{200, 200, 200, 255}
	titleColor = color.RGBA{255, 255, 255, 255}
)

var palette = []color.RGBA{
	{255, 140, 66, 255},
	{84, 160, 255, 255},
	{120, 220, 120, 255},
	{240, 90, 120, 255},
	{200, 160, 255, 255},
	{255, 220, 90, 255},
	{80, 220, 210, 255},
	{230, 230, 230, 255},
}

// RenderChart draws the hourly temperatures of logs, one line per day, and
// returns the PNG encoding.
func RenderChart(logs []models.DailyLog) ([]byte, error) {
	if len(logs) == 0 {
		return nil, ErrNoData
	}

	img := image.NewRGBA(image.Rect(0, 0, ChartWidth, ChartHeight))
	drawBackground(img)

	lo, hi := temperatureRange(logs)
	yFor := func(t float64) int {
		return plotBottom - int(math.Round((t-lo)/(hi-lo)*float64(plotBottom-plotTop)))
	}
	xFor := func(hour int) int {
		return plotLeft + hour*(plotRight-plotLeft)/(models.HoursPerDay-1)
	}

	drawAxes(img, lo, hi, xFor, yFor)

	for i, log := range logs {
		c := palette[i%len(palette)]
		for h := 1; h < models.HoursPerDay; h++ {
			drawLine(img,
				xFor(h-1), yFor(log.Entries[h-1].Temperature),
				xFor(h), yFor(log.Entries[h].Temperature), c)
		}
	}

	drawLegend(img, logs)
	drawText(img, "Hourly temperature (C)", plotLeft, plotTop-20, titleColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// temperatureRange returns whole-degree bounds covering every day's
// min/max with one degree of headroom.
func temperatureRange(logs []models.DailyLog) (lo, hi float64) {
	lo, hi = models.SentinelMin, models.SentinelMax
	for _, log := range logs {
		for _, e := range log.Entries {
			lo = math.Min(lo, e.Temperature)
			hi = math.Max(hi, e.Temperature)
		}
	}
	lo = math.Floor(lo) - 1
	hi = math.Ceil(hi) + 1
	return lo, hi
}

func drawBackground(img *image.RGBA) {
	for y := 0; y < ChartHeight; y++ {
		progress := float64(y) / float64(ChartHeight)
		c := color.RGBA{
			R: uint8(20 + progress*10),
			G: uint8(20 + progress*15),
			B: uint8(40 + progress*20),
			A: 255,
		}
		for x := 0; x < ChartWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawAxes(img *image.RGBA, lo, hi float64, xFor func(int) int, yFor func(float64) int) {
	step := tickStep(hi - lo)
	for t := math.Ceil(lo/step) * step; t <= hi; t += step {
		y := yFor(t)
		drawLine(img, plotLeft, y, plotRight, y, gridColor)
		drawText(img, fmt.Sprintf("%4.0f", t), plotLeft-40, y+4, labelColor)
	}

	for h := 0; h < models.HoursPerDay; h++ {
		x := xFor(h)
		drawLine(img, x, plotBottom, x, plotBottom+5, axisColor)
		if h%3 == 0 {
			drawText(img, fmt.Sprintf("%02d", h), x-7, plotBottom+20, labelColor)
		}
	}

	drawLine(img, plotLeft, plotTop, plotLeft, plotBottom, axisColor)
	drawLine(img, plotLeft, plotBottom, plotRight, plotBottom, axisColor)
	drawText(img, "hour", (plotLeft+plotRight)/2-14, plotBottom+42, labelColor)
}

// tickStep picks a 1, 2 or 5 times power-of-ten step giving at most ten
// gridlines over span.
func tickStep(span float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(span/10)))
	for _, m := range []float64{1, 2, 5, 10} {
		if span/(m*mag) <= 10 {
			return m * mag
		}
	}
	return 10 * mag
}

func drawLegend(img *image.RGBA, logs []models.DailyLog) {
	rows := (plotBottom - plotTop) / legendLineH
	y := plotTop
	for i, log := range logs {
		if i == rows-1 && len(logs) > rows {
			drawText(img, fmt.Sprintf("... %d more days", len(logs)-i), legendX, y+legendSwatch-1, labelColor)
			return
		}
		c := palette[i%len(palette)]
		fillRect(img, legendX, y, legendSwatch, legendSwatch, c)
		text := fmt.Sprintf("%s  %.1f  %.1f/%.1f", log.Date, log.AvgTemperature, log.MinTemperature, log.MaxTemperature)
		drawText(img, text, legendX+legendSwatch+8, y+legendSwatch-1, labelColor)
		y += legendLineH
	}
}

// drawLine rasterises a segment with Bresenham's algorithm, clipping to
// the image bounds.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	b := img.Bounds()
	for {
		if image.Pt(x0, y0).In(b) {
			img.SetRGBA(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			img.SetRGBA(xx, yy, c)
		}
	}
}

// drawText draws text with its baseline at (x, y).
func drawText(img *image.RGBA, text string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
