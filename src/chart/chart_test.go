package chart

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"index-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSeries() models.MSeries {
	var recs []models.MPriceRecord
	for i := 0; i < 30; i++ {
		d := day(2024, 1, 1).AddDate(0, 0, i)
		v := float64(100 + i)
		recs = append(recs, models.MPriceRecord{Date: d, Open: v, High: v + 2, Low: v - 2, Close: v + 1, Volume: 1000 * v})
	}
	return models.MSeries{Symbol: "AAPL", Records: recs}
}

func dates(recs []models.MPriceRecord) map[time.Time]bool {
	out := make(map[time.Time]bool, len(recs))
	for _, r := range recs {
		out[r.Date] = true
	}
	return out
}

// -----------------------------------------------------------------------------

func TestSlice_Inclusive(t *testing.T) {
	got := Slice(testSeries(), day(2024, 1, 5), day(2024, 1, 7))
	require.Len(t, got, 3)
	assert.Equal(t, day(2024, 1, 5), got[0].Date)
	assert.Equal(t, day(2024, 1, 7), got[2].Date)
}

func TestSlice_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 1, 0, time.UTC)
	assert.Len(t, Slice(testSeries(), start, end), 1)
}

func TestSlice_Monotonic(t *testing.T) {
	s := testSeries()
	tests := []struct {
		outerStart, innerStart, innerEnd, outerEnd time.Time
	}{
		{day(2024, 1, 1), day(2024, 1, 3), day(2024, 1, 10), day(2024, 1, 30)},
		{day(2023, 12, 1), day(2024, 1, 1), day(2024, 1, 1), day(2024, 2, 1)},
		{day(2024, 1, 10), day(2024, 1, 10), day(2024, 1, 12), day(2024, 1, 12)},
		{day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3), day(2024, 3, 4)},
	}
	for _, tt := range tests {
		outer := dates(Slice(s, tt.outerStart, tt.outerEnd))
		for d := range dates(Slice(s, tt.innerStart, tt.innerEnd)) {
			assert.True(t, outer[d], "inner date %s missing from outer slice", d)
		}
	}
}

func TestSlice_InvertedRangeIsEmpty(t *testing.T) {
	got := Slice(testSeries(), day(2024, 1, 20), day(2024, 1, 10))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPoints(t *testing.T) {
	recs := Slice(testSeries(), day(2024, 1, 1), day(2024, 1, 2))
	tests := []struct {
		field models.MPriceField
		want  float64
	}{
		{models.FieldOpen, 100},
		{models.FieldClose, 101},
		{models.FieldHigh, 102},
		{models.FieldLow, 98},
		{models.FieldVolume, 100000},
	}
	for _, tt := range tests {
		pts := Points(recs, tt.field)
		require.Len(t, pts, 2)
		assert.Equal(t, tt.want, pts[0].Value, string(tt.field))
	}
}

// -----------------------------------------------------------------------------

func TestRender_LineChart(t *testing.T) {
	r := NewRenderer(models.MChartConfig{Width: 640, Height: 240})
	params := models.MChartParams{Field: models.FieldClose, Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	out, err := r.Render(testSeries(), params, FormatSVG)
	require.NoError(t, err)
	assert.Len(t, out.Slice, 30)
	assert.Len(t, out.Points, 30)
	assert.Contains(t, string(out.Image), "<svg")
}

func TestRender_SinglePoint(t *testing.T) {
	r := NewRenderer(models.MChartConfig{Width: 640, Height: 240})
	params := models.MChartParams{Field: models.FieldHigh, Start: day(2024, 1, 1), End: day(2024, 1, 1)}

	out, err := r.Render(testSeries(), params, FormatSVG)
	require.NoError(t, err)
	require.Len(t, out.Points, 1)
	assert.Equal(t, day(2024, 1, 1), out.Points[0].Date)
	assert.Equal(t, 102.0, out.Points[0].Value)
	assert.NotContains(t, string(out.Image), "No data")
}

func TestRender_EmptyIsBlank(t *testing.T) {
	r := NewRenderer(models.MChartConfig{Width: 320, Height: 200})

	inverted := models.MChartParams{Field: models.FieldOpen, Start: day(2024, 1, 20), End: day(2024, 1, 10)}
	out, err := r.Render(testSeries(), inverted, FormatSVG)
	require.NoError(t, err)
	assert.Empty(t, out.Points)
	assert.Contains(t, string(out.Image), "No data")

	missing := models.MChartParams{Field: models.FieldOpen, Start: day(2024, 1, 1), End: day(2024, 1, 31)}
	out, err = r.Render(models.MSeries{Symbol: "ZZZZ"}, missing, FormatPNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out.Image))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
}

func TestRender_PNG(t *testing.T) {
	r := NewRenderer(models.MChartConfig{Width: 400, Height: 200})
	params := models.MChartParams{Field: models.FieldVolume, Start: day(2024, 1, 1), End: day(2024, 1, 15)}

	out, err := r.Render(testSeries(), params, FormatPNG)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out.Image))
	assert.NoError(t, err)
}
