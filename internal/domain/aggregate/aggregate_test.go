package aggregate_test

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/filter"
	"github.com/okian/unirank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(name, country string, score float64) model.Record {
	return model.NewRecord(name, country, map[model.Metric]float64{model.OverallScore: score})
}

func nullRec(name, country string) model.Record {
	return model.NewRecord(name, country, nil)
}

func sumCounts(bins []aggregate.Bin) int {
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	return total
}

func TestDistribution(t *testing.T) {
	Convey("Given five identical values", t, func() {
		view := filter.View{}
		for i := 0; i < 5; i++ {
			view = append(view, rec("U", "X", 50))
		}

		Convey("When binning with the default cap", func() {
			bins := aggregate.Distribution(view, model.OverallScore, 20)

			Convey("Then a single bin holds all of them", func() {
				So(bins, ShouldHaveLength, 1)
				So(bins[0].Low, ShouldEqual, 50.0)
				So(bins[0].High, ShouldEqual, 50.0)
				So(bins[0].Count, ShouldEqual, 5)
			})
		})
	})

	Convey("Given values spread over [0, 100] with nulls", t, func() {
		view := filter.View{
			rec("a", "X", 0),
			rec("b", "X", 10),
			rec("c", "X", 49.9),
			rec("d", "Y", 50),
			rec("e", "Y", 99.99),
			rec("f", "Y", 100),
			nullRec("g", "Y"),
			nullRec("h", "Z"),
		}

		Convey("When binning into ten bins", func() {
			bins := aggregate.Distribution(view, model.OverallScore, 10)

			Convey("Then there are exactly ten equal-width bins covering the range", func() {
				So(bins, ShouldHaveLength, 10)
				So(bins[0].Low, ShouldEqual, 0.0)
				So(bins[9].High, ShouldEqual, 100.0)
				for i := 1; i < len(bins); i++ {
					So(bins[i].Low, ShouldAlmostEqual, bins[i-1].High, 1e-9)
				}
			})

			Convey("Then counts sum to the non-null values", func() {
				So(sumCounts(bins), ShouldEqual, aggregate.NonNull(view, model.OverallScore))
				So(sumCounts(bins), ShouldEqual, 6)
			})

			Convey("Then intervals are half-open except the last", func() {
				So(bins[0].Count, ShouldEqual, 1) // 0
				So(bins[1].Count, ShouldEqual, 1) // 10
				So(bins[4].Count, ShouldEqual, 1) // 49.9
				So(bins[5].Count, ShouldEqual, 1) // 50
				So(bins[9].Count, ShouldEqual, 2) // 99.99 and 100
			})
		})

		Convey("When maxBins is not positive", func() {
			bins := aggregate.Distribution(view, model.OverallScore, 0)

			Convey("Then the default cap applies", func() {
				So(bins, ShouldHaveLength, aggregate.DefaultMaxBins)
				So(sumCounts(bins), ShouldEqual, 6)
			})
		})
	})

	Convey("Given a view without values for the metric", t, func() {
		view := filter.View{nullRec("a", "X"), nullRec("b", "Y")}

		Convey("Then the distribution is empty", func() {
			So(aggregate.Distribution(view, model.OverallScore, 20), ShouldBeEmpty)
			So(aggregate.Distribution(filter.View{}, model.OverallScore, 20), ShouldBeEmpty)
		})
	})
}

// inside reports whether v lies in bin i: [Low, High) or [Low, High] for the last.
func inside(bins []aggregate.Bin, i int, v float64) bool {
	b := bins[i]
	if i == len(bins)-1 {
		return v >= b.Low && v <= b.High
	}
	return v >= b.Low && v < b.High
}

func TestDistributionEdges(t *testing.T) {
	Convey("Given many random views of one-decimal scores", t, func() {
		rng := rand.New(rand.NewSource(7))

		Convey("Then every bin counts exactly the values inside its own edges", func() {
			mismatches := 0
			for round := 0; round < 2000; round++ {
				values := make([]float64, 30)
				view := make(filter.View, 0, len(values))
				for i := range values {
					values[i] = float64(rng.Intn(1001)) / 10
					view = append(view, rec("U", "X", values[i]))
				}

				bins := aggregate.Distribution(view, model.OverallScore, 20)
				for i := range bins {
					n := 0
					for _, v := range values {
						if inside(bins, i, v) {
							n++
						}
					}
					if n != bins[i].Count {
						mismatches++
					}
				}
			}
			So(mismatches, ShouldEqual, 0)
		})
	})

	Convey("Given finite values whose range overflows", t, func() {
		view := filter.View{
			rec("a", "X", -math.MaxFloat64),
			rec("b", "Y", math.MaxFloat64),
			rec("c", "Y", math.MaxFloat64),
			rec("d", "Y", math.MaxFloat64),
		}

		Convey("When binning", func() {
			bins := aggregate.Distribution(view, model.OverallScore, 20)

			Convey("Then every edge is finite and ordered", func() {
				So(bins, ShouldHaveLength, 20)
				So(bins[0].Low, ShouldEqual, -math.MaxFloat64)
				So(bins[19].High, ShouldEqual, math.MaxFloat64)
				for i, b := range bins {
					So(math.IsNaN(b.Low) || math.IsInf(b.Low, 0), ShouldBeFalse)
					So(math.IsNaN(b.High) || math.IsInf(b.High, 0), ShouldBeFalse)
					So(b.Low, ShouldBeLessThanOrEqualTo, b.High)
					if i > 0 {
						So(b.Low, ShouldEqual, bins[i-1].High)
					}
				}
				So(bins[0].Count, ShouldEqual, 1)
				So(bins[19].Count, ShouldEqual, 3)
			})

			Convey("Then the bins encode as JSON", func() {
				_, err := json.Marshal(bins)
				So(err, ShouldBeNil)
			})
		})

		Convey("When averaging per country", func() {
			averages := aggregate.ByCountry(view, model.OverallScore)

			Convey("Then the means stay finite", func() {
				So(averages, ShouldHaveLength, 2)
				So(averages[0].Country, ShouldEqual, "Y")
				So(averages[0].Average, ShouldAlmostEqual, math.MaxFloat64, math.MaxFloat64*1e-12)
				So(math.IsInf(averages[0].Average, 0), ShouldBeFalse)
				So(averages[1].Average, ShouldEqual, -math.MaxFloat64)
				_, err := json.Marshal(averages)
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestByCountry(t *testing.T) {
	Convey("Given records across countries with ties and nulls", t, func() {
		view := filter.View{
			rec("a", "Japan", 60),
			rec("b", "Chile", 80),
			rec("c", "Brazil", 80),
			rec("d", "Japan", 100),
			nullRec("e", "Chile"),
			nullRec("f", "Peru"),
			rec("g", "Austria", 10),
		}

		averages := aggregate.ByCountry(view, model.OverallScore)

		Convey("Then countries are sorted by average desc, then name asc", func() {
			var got []string
			for _, a := range averages {
				got = append(got, a.Country)
			}
			So(got, ShouldResemble, []string{"Brazil", "Chile", "Japan", "Austria"})

			for i := 1; i < len(averages); i++ {
				prev, cur := averages[i-1], averages[i]
				So(prev.Average, ShouldBeGreaterThanOrEqualTo, cur.Average)
				if prev.Average == cur.Average {
					So(prev.Country, ShouldBeLessThan, cur.Country)
				}
			}
		})

		Convey("Then nulls are excluded from each mean", func() {
			So(averages[1].Country, ShouldEqual, "Chile")
			So(averages[1].Average, ShouldEqual, 80.0)
			So(averages[1].Count, ShouldEqual, 1)
			So(averages[2].Average, ShouldEqual, 80.0)
			So(averages[2].Count, ShouldEqual, 2)
		})

		Convey("Then an all-null country is omitted", func() {
			for _, a := range averages {
				So(a.Country, ShouldNotEqual, "Peru")
			}
		})
	})

	Convey("Given an empty view", t, func() {
		Convey("Then there are no averages", func() {
			So(aggregate.ByCountry(filter.View{}, model.InboundExchange), ShouldBeEmpty)
		})
	})
}
