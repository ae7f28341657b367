// Package filter selects the subset of the rankings table a user asked for.
package filter

import "github.com/okian/unirank/internal/domain/model"

// View is an order-preserving subset of a Dataset. It shares records with
// the dataset and must be treated as read-only.
type View []model.Record

// ByCountry keeps every record whose country is in countries, preserving
// dataset order. An empty selection or no match yields an empty view.
func ByCountry(ds *model.Dataset, countries []string) View {
	if ds.Len() == 0 || len(countries) == 0 {
		return View{}
	}

	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[c] = struct{}{}
	}

	out := make(View, 0, ds.Len())
	for _, r := range ds.Records {
		if _, ok := allowed[r.Country]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Countries returns the distinct countries in the view, sorted ascending.
func (v View) Countries() []string {
	return model.DistinctCountries(v)
}
