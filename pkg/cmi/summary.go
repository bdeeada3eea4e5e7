package cmi

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the CMI distribution of a corpus. StdDev is the sample
// standard deviation; it is 0 for fewer than two values.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		s.Median = sorted[mid]
	} else {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("sentences=%d mean=%.2f%% median=%.2f%% std=%.2f%% min=%.2f%% max=%.2f%%",
		s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
}
