package chart

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"time"

	"index-dashboard/src/models"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Format selects the image encoding of a chart.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Rendered is a chart image together with the data behind it.
type Rendered struct {
	Slice  []models.MPriceRecord
	Points []models.MChartPoint
	Image  []byte
	Format Format
}

// Renderer draws one field of a price series as a line chart.
type Renderer struct {
	Width  int
	Height int
}

// -----------------------------------------------------------------------------

func NewRenderer(cfg models.MChartConfig) *Renderer {
	return &Renderer{Width: cfg.Width, Height: cfg.Height}
}

// -----------------------------------------------------------------------------

// Render slices series to [params.Start, params.End] and draws params.Field.
// An empty slice gives a blank chart. If drawing fails the blank chart is
// returned along with the error.
func (r *Renderer) Render(series models.MSeries, params models.MChartParams, format Format) (Rendered, error) {
	slice := Slice(series, params.Start, params.End)
	out := Rendered{
		Slice:  slice,
		Points: Points(slice, params.Field),
		Format: format,
	}

	if len(out.Points) == 0 {
		out.Image = r.blank(format, "No data")
		return out, nil
	}

	img, err := r.draw(series.Symbol, params.Field, out.Points, format)
	if err != nil {
		out.Image = r.blank(format, "Chart unavailable")
		return out, fmt.Errorf("render %s %s: %w", series.Symbol, params.Field, err)
	}
	out.Image = img
	return out, nil
}

// -----------------------------------------------------------------------------

func (r *Renderer) draw(symbol string, field models.MPriceField, points []models.MChartPoint, format Format) ([]byte, error) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for i, p := range points {
		xs[i] = p.Date
		ys[i] = p.Value
		minY = math.Min(minY, p.Value)
		maxY = math.Max(maxY, p.Value)
	}

	style := gochart.Style{
		StrokeColor: gochart.ColorBlue,
		StrokeWidth: 2,
	}

	// go-chart needs two X values; a single day is drawn as a dot.
	if len(points) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
		style.DotWidth = 5
		style.DotColor = gochart.ColorBlue
	}

	// and a non-zero Y range
	if maxY <= minY {
		pad := math.Abs(minY) * 0.01
		if pad == 0 {
			pad = 1
		}
		minY, maxY = minY-pad, maxY+pad
	}

	ch := gochart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 28}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name:  string(field),
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    symbol,
				XValues: xs,
				YValues: ys,
				Style:   style,
			},
		},
	}

	var buf bytes.Buffer
	provider := gochart.SVG
	if format == FormatPNG {
		provider = gochart.PNG
	}
	if err := ch.Render(provider, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// -----------------------------------------------------------------------------

// blank is the empty chart: a white canvas, captioned when it is SVG.
func (r *Renderer) blank(format Format, caption string) []byte {
	if format == FormatPNG {
		img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		var buf bytes.Buffer
		_ = png.Encode(&buf, img)
		return buf.Bytes()
	}
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="100%%" height="100%%" fill="white"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" fill="#999" font-family="sans-serif" font-size="14">%s</text></svg>`,
		r.Width, r.Height, html.EscapeString(caption)))
}
