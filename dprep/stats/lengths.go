// Package stats summarises token length distributions so max_len can be chosen with data.
package stats

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LengthSummary describes a set of token sequence lengths.
type LengthSummary struct {
	Count     int
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	P50       float64
	P90       float64
	P99       float64
	MaxLen    int
	Truncated int // sequences longer than MaxLen
}

// TruncatedFraction is Truncated / Count, 0 when empty.
func (s LengthSummary) TruncatedFraction() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Truncated) / float64(s.Count)
}

// SummarizeLengths computes a LengthSummary over lengths against maxLen.
func SummarizeLengths(lengths []int, maxLen int) LengthSummary {
	sum := LengthSummary{Count: len(lengths), MaxLen: maxLen}
	if len(lengths) == 0 {
		return sum
	}

	x := make([]float64, len(lengths))
	for i, n := range lengths {
		x[i] = float64(n)
		if n > maxLen {
			sum.Truncated++
		}
	}
	slices.Sort(x)

	sum.Min = floats.Min(x)
	sum.Max = floats.Max(x)
	if len(x) > 1 {
		sum.Mean, sum.StdDev = stat.MeanStdDev(x, nil)
	} else {
		sum.Mean = x[0]
	}
	sum.P50 = stat.Quantile(0.5, stat.Empirical, x, nil)
	sum.P90 = stat.Quantile(0.9, stat.Empirical, x, nil)
	sum.P99 = stat.Quantile(0.99, stat.Empirical, x, nil)
	return sum
}
