// Package summary computes the key-metrics panel of the dashboard.
package summary

import (
	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/filter"
	"github.com/okian/unirank/internal/domain/model"
)

// Summary holds the key metrics of a filtered view.
type Summary struct {
	// TopUniversity is the first record of the view. The source table is
	// assumed to be sorted by rank; this is not checked.
	TopUniversity string `json:"topUniversityName"`
	// TopScore is the overall score of TopUniversity, nil when null.
	TopScore *float64 `json:"topScore"`
	// BestCountry has the highest mean overall score. Ties go to the
	// lexicographically smallest country name.
	BestCountry         string  `json:"bestCountry"`
	BestCountryAvgScore float64 `json:"bestCountryAvgScore"`
}

// Summarize returns ErrEmptyView for an empty view and ErrNoData when no
// record of the view has an overall score.
func Summarize(view filter.View) (Summary, error) {
	if len(view) == 0 {
		return Summary{}, model.ErrEmptyView
	}

	first := view[0]
	s := Summary{TopUniversity: first.Name}
	if v, ok := first.Value(model.OverallScore); ok {
		s.TopScore = &v
	}

	averages := aggregate.ByCountry(view, model.OverallScore)
	if len(averages) == 0 {
		return Summary{}, model.ErrNoData
	}
	s.BestCountry = averages[0].Country
	s.BestCountryAvgScore = averages[0].Average
	return s, nil
}
