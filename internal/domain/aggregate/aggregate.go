// Package aggregate computes the chart series for a selected metric: a binned
// frequency distribution and per-country averages.
package aggregate

import (
	"math"
	"sort"

	"github.com/okian/unirank/internal/domain/filter"
	"github.com/okian/unirank/internal/domain/model"
)

// DefaultMaxBins caps the number of distribution bins when callers pass
// a non-positive value.
const DefaultMaxBins = 20

// Bin is one interval of a distribution. Intervals are [Low, High) except the
// last one, which is [Low, High].
type Bin struct {
	Low   float64 `json:"binLow"`
	High  float64 `json:"binHigh"`
	Count int     `json:"count"`
}

// CountryAverage is the mean of a metric over one country's records.
type CountryAverage struct {
	Country string  `json:"country"`
	Average float64 `json:"averageMetric"`
	// Count is the number of non-null values behind Average.
	Count int `json:"count"`
}

// Distribution partitions [min, max] of the non-null metric values into at
// most maxBins equal-width bins and counts values per bin. When every value
// is equal the range collapses into a single bin. A view without values
// yields an empty slice.
func Distribution(view filter.View, metric model.Metric, maxBins int) []Bin {
	if maxBins < 1 {
		maxBins = DefaultMaxBins
	}

	values := make([]float64, 0, len(view))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range view {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		values = append(values, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return []Bin{}
	}

	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	edges := binEdges(lo, hi, maxBins)
	bins := make([]Bin, maxBins)
	for i := range bins {
		bins[i].Low = edges[i]
		bins[i].High = edges[i+1]
	}

	// Place by the reported edges; hi lands in the closed last bin.
	for _, v := range values {
		idx := sort.Search(maxBins, func(i int) bool { return v < bins[i].High })
		if idx >= maxBins {
			idx = maxBins - 1
		}
		bins[idx].Count++
	}
	return bins
}

// binEdges splits [lo, hi] into n intervals and returns the n+1 boundaries.
// Edges are non-decreasing, start at lo and end at hi, and stay finite even
// when hi-lo overflows.
func binEdges(lo, hi float64, n int) []float64 {
	span := hi - lo
	edges := make([]float64, n+1)
	edges[0] = lo
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		e := lo + t*span
		if math.IsInf(span, 0) {
			e = lo*(1-t) + hi*t
		}
		edges[i] = math.Min(math.Max(e, edges[i-1]), hi)
	}
	edges[n] = hi
	return edges
}

// ByCountry returns the mean of metric per country, highest first, ties
// broken by country name ascending. Nulls are excluded from each mean and
// countries without any value are omitted.
func ByCountry(view filter.View, metric model.Metric) []CountryAverage {
	type acc struct {
		sum  float64
		mean float64
		n    int
	}
	groups := make(map[string]*acc)
	for _, r := range view {
		v, ok := r.Value(metric)
		if !ok {
			continue
		}
		g, found := groups[r.Country]
		if !found {
			g = &acc{}
			groups[r.Country] = g
		}
		g.sum += v
		g.n++
		// Running mean stays finite when the sum overflows.
		g.mean += v/float64(g.n) - g.mean/float64(g.n)
	}

	out := make([]CountryAverage, 0, len(groups))
	for country, g := range groups {
		avg := g.sum / float64(g.n)
		if math.IsInf(g.sum, 0) || math.IsNaN(g.sum) {
			avg = g.mean
		}
		out = append(out, CountryAverage{
			Country: country,
			Average: avg,
			Count:   g.n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Country < out[j].Country
	})
	return out
}

// NonNull counts the records carrying a value for metric.
func NonNull(view filter.View, metric model.Metric) int {
	n := 0
	for _, r := range view {
		if _, ok := r.Value(metric); ok {
			n++
		}
	}
	return n
}
