// Package model contains the university rankings data model shared by all layers.
package model

import (
	"sort"
	"time"
)

// Value is a nullable float cell.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a valid Value holding f.
func Some(f float64) Value { return Value{Float: f, Valid: true} }

// Record is one row of the rankings table.
type Record struct {
	Name    string
	Country string
	Values  [metricCount]Value
}

// NewRecord builds a record; metrics absent from values are null.
func NewRecord(name, country string, values map[Metric]float64) Record {
	r := Record{Name: name, Country: country}
	for m, f := range values {
		if m.Valid() {
			r.Values[m] = Some(f)
		}
	}
	return r
}

// Value returns the cell for metric m and whether it is non-null.
func (r Record) Value(m Metric) (float64, bool) {
	if !m.Valid() {
		return 0, false
	}
	v := r.Values[m]
	return v.Float, v.Valid
}

// Dataset is the immutable, ordered rankings table. Row order is the source
// order and is taken to be rank order.
type Dataset struct {
	Records []Record

	// Source is where the table was read from.
	Source string
	// LoadedAt is when the table finished loading.
	LoadedAt time.Time
	// Skipped counts source rows dropped for missing name or country.
	Skipped int
	// Nulls counts null cells per metric.
	Nulls [metricCount]int
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// NullCount returns the number of null cells for metric m.
func (d *Dataset) NullCount(m Metric) int {
	if d == nil || !m.Valid() {
		return 0
	}
	return d.Nulls[m]
}

// DistinctCountries returns every country present, sorted ascending.
func DistinctCountries(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}
