package calculator

import (
	"errors"
	"math"
)

// SeriesRange returns the lowest and highest sample.
func SeriesRange(samples []float64) (low, high float64, err error) {
	if len(samples) == 0 {
		return 0, 0, errors.New("no samples provided")
	}
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, v := range samples {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high, nil
}

// RangePosition returns where v sits within [low, high] (0.0~1.0).
// A flat range places every value in the middle.
func RangePosition(v, low, high float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (v - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
