package calculator

import "CoinPulse/internal/model"

// Band is the plot area a sparkline is scaled into. Y grows downwards, so
// the series maximum lands on Top and the minimum on Bottom.
type Band struct {
	Width  float64
	Top    float64
	Bottom float64
}

// DefaultBand is a 100-wide plot with the line kept inside [5, 40].
var DefaultBand = Band{Width: 100, Top: 5, Bottom: 40}

// Mid is the vertical centre of the band.
func (b Band) Mid() float64 { return (b.Top + b.Bottom) / 2 }

// ScaleSparkline maps samples to plot coordinates: x evenly spaced over
// [0, Width], y min-max normalized into the band. An empty series yields an
// empty result; a single sample is centred horizontally.
func ScaleSparkline(samples []float64, band Band) []model.Point {
	points := make([]model.Point, len(samples))
	if len(samples) == 0 {
		return points
	}
	low, high, _ := SeriesRange(samples)
	span := band.Bottom - band.Top
	n := len(samples)
	for i, v := range samples {
		x := band.Width / 2
		if n > 1 {
			x = float64(i) / float64(n-1) * band.Width
		}
		pos, err := RangePosition(v, low, high)
		if err != nil {
			pos = 0.5
		}
		points[i] = model.Point{X: x, Y: band.Bottom - pos*span}
	}
	return points
}

// ScaleBars expresses each sample as a percentage of the series maximum.
// A series whose maximum is not positive scales to all zeros.
func ScaleBars(samples []float64) []float64 {
	bars := make([]float64, len(samples))
	if len(samples) == 0 {
		return bars
	}
	_, high, _ := SeriesRange(samples)
	if high <= 0 {
		return bars
	}
	for i, v := range samples {
		bars[i] = v / high * 100
	}
	return bars
}
