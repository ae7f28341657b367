package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/unirank/internal/adapters/repository"
	"github.com/okian/unirank/internal/domain/filter"
	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/summary"
	"github.com/okian/unirank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func header() string {
	cols := []string{"Rank", model.ColumnUniversityName, model.ColumnCountry}
	for _, m := range model.Metrics() {
		cols = append(cols, m.String())
	}
	return strings.Join(cols, ",")
}

// row renders a CSV line; metric cells beyond len(values) are left empty.
func row(rank, name, country string, values ...string) string {
	cells := []string{rank, name, country}
	for i := range model.Metrics() {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cells = append(cells, v)
	}
	return strings.Join(cells, ",")
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "universities.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	Convey("Given a well-formed table with an N/A overall score", t, func() {
		input := strings.Join([]string{
			header(),
			row("1", "Massachusetts Institute of Technology (MIT)", "United States", "100", "98.5"),
			row("2", "University of Cambridge", "United Kingdom", "N/A", "97"),
			row("3", `"University of Oxford, The"`, "United Kingdom", "96.2", "oops"),
		}, "\n")

		ds, err := repository.ReadCSV(strings.NewReader(input))

		Convey("Then every row loads in source order", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 3)
			So(ds.Records[0].Name, ShouldEqual, "Massachusetts Institute of Technology (MIT)")
			So(ds.Records[2].Name, ShouldEqual, "University of Oxford, The")
		})

		Convey("Then non-numeric cells load as null", func() {
			_, ok := ds.Records[1].Value(model.OverallScore)
			So(ok, ShouldBeFalse)
			_, ok = ds.Records[2].Value(model.CitationsPerPaper)
			So(ok, ShouldBeFalse)
			v, ok := ds.Records[1].Value(model.CitationsPerPaper)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 97.0)
			So(ds.NullCount(model.OverallScore), ShouldEqual, 1)
			So(ds.NullCount(model.InboundExchange), ShouldEqual, 3)
		})

		Convey("Then the null row stays in the view but not in the best-country mean", func() {
			view := filter.ByCountry(ds, []string{"United Kingdom", "United States"})
			So(view, ShouldHaveLength, 3)

			s, err := summary.Summarize(view)
			So(err, ShouldBeNil)
			So(s.BestCountry, ShouldEqual, "United States")
			So(s.BestCountryAvgScore, ShouldEqual, 100.0)

			uk := filter.ByCountry(ds, []string{"United Kingdom"})
			s, err = summary.Summarize(uk)
			So(err, ShouldBeNil)
			So(s.BestCountryAvgScore, ShouldEqual, 96.2)
			So(s.TopScore, ShouldBeNil)
		})
	})

	Convey("Given a header with a byte order mark and padded names", t, func() {
		input := "\ufeff" + strings.ReplaceAll(header(), ",", " , ") + "\n" + row("1", "A", "X", "50")

		ds, err := repository.ReadCSV(strings.NewReader(input))

		Convey("Then the columns still match", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 1)
		})
	})

	Convey("Given rows missing a name or country", t, func() {
		input := strings.Join([]string{
			header(),
			row("1", "A", "X", "50"),
			row("2", "", "X", "40"),
			row("3", "C", "", "30"),
		}, "\n")

		ds, err := repository.ReadCSV(strings.NewReader(input))

		Convey("Then they are skipped and counted", func() {
			So(err, ShouldBeNil)
			So(ds.Len(), ShouldEqual, 1)
			So(ds.Skipped, ShouldEqual, 2)
		})
	})

	Convey("Given a table without a required column", t, func() {
		input := "University Name,Country\nA,X\n"

		_, err := repository.ReadCSV(strings.NewReader(input))

		Convey("Then it fails with ErrDataUnavailable naming the columns", func() {
			So(errors.Is(err, model.ErrDataUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Overall Score")
		})
	})

	Convey("Given an empty input", t, func() {
		_, err := repository.ReadCSV(strings.NewReader(""))

		Convey("Then it fails with ErrDataUnavailable", func() {
			So(errors.Is(err, model.ErrDataUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a malformed quoted field", t, func() {
		input := header() + "\n" + `1,"A,X` + "\n"

		_, err := repository.ReadCSV(strings.NewReader(input))

		Convey("Then it fails with ErrDataUnavailable", func() {
			So(errors.Is(err, model.ErrDataUnavailable), ShouldBeTrue)
		})
	})
}

func TestCSVLoader(t *testing.T) {
	Convey("Given a loader over a file on disk", t, func() {
		ctx := context.Background()
		path := writeCSV(t, header(), row("1", "A", "X", "90"), row("2", "B", "Y", "80"))
		loader := repository.NewCSVLoader(repository.WithPath(path))

		Convey("When loading", func() {
			ds, err := loader.Load(ctx)

			Convey("Then the dataset records its source", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2)
				So(ds.Source, ShouldEqual, path)
				So(ds.LoadedAt.IsZero(), ShouldBeFalse)
				So(loader.Path(), ShouldEqual, path)
			})

			Convey("And loading again returns the cached value without rereading", func() {
				So(os.Remove(path), ShouldBeNil)

				again, err := loader.Load(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldPointTo, ds)
			})
		})
	})

	Convey("Given a loader over a missing file", t, func() {
		loader := repository.NewCSVLoader(repository.WithPath(filepath.Join(t.TempDir(), "absent.csv")))

		_, err := loader.Load(context.Background())

		Convey("Then it fails with ErrDataUnavailable", func() {
			So(errors.Is(err, model.ErrDataUnavailable), ShouldBeTrue)
		})

		Convey("And the failure is cached", func() {
			_, again := loader.Load(context.Background())
			So(again, ShouldEqual, err)
		})
	})

	Convey("Given a loader with no path option", t, func() {
		loader := repository.NewCSVLoader(repository.WithPath(""))

		Convey("Then it reads the default file name", func() {
			So(loader.Path(), ShouldEqual, "topuniversities.csv")
		})
	})
}
