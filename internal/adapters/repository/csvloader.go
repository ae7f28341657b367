package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/pkg/logger"
	"github.com/okian/unirank/pkg/metrics"
)

const (
	defaultPath = "topuniversities.csv"
	utf8BOM     = "\ufeff"
)

// CSVLoader reads the rankings table from a CSV file once and caches the
// result, or the failure, for its lifetime.
type CSVLoader struct {
	path   string
	logger logger.Logger

	once sync.Once
	ds   *model.Dataset
	err  error
}

var _ Source = (*CSVLoader)(nil)

// NewCSVLoader creates a loader. Nothing is read until Load is called.
func NewCSVLoader(opts ...Option) *CSVLoader {
	l := &CSVLoader{path: defaultPath}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file the loader reads.
func (l *CSVLoader) Path() string { return l.path }

// Load reads and parses the file on the first call; later calls return the
// cached dataset without touching the file. Errors wrap model.ErrDataUnavailable.
func (l *CSVLoader) Load(ctx context.Context) (*model.Dataset, error) {
	l.once.Do(func() {
		l.ds, l.err = l.load(ctx)
	})
	return l.ds, l.err
}

func (l *CSVLoader) load(ctx context.Context) (*model.Dataset, error) {
	const op = "repository.load_csv"
	if l.logger == nil {
		l.logger = logger.Get()
	}
	start := time.Now()

	f, err := os.Open(l.path)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "open")
		return nil, unavailable(op, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(f)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "parse")
		return nil, fmt.Errorf("%s: %s: %w", op, l.path, err)
	}
	ds.Source = l.path

	elapsed := time.Since(start)
	recordDatasetMetrics(ds, elapsed)

	if ds.Skipped > 0 {
		l.logger.Warn(ctx, "skipped rows without university name or country",
			logger.Int("skipped", ds.Skipped),
			logger.String("path", l.path),
		)
	}
	l.logger.Info(ctx, "dataset loaded",
		logger.String("path", l.path),
		logger.Int("rows", ds.Len()),
		logger.Int("null_overall_scores", ds.NullCount(model.OverallScore)),
		logger.Any("elapsed", elapsed),
	)
	return ds, nil
}

// ReadCSV parses a rankings table. Cells of metric columns that are not
// finite numbers load as null. A missing required column, an unreadable
// header or a malformed record fails with model.ErrDataUnavailable.
func ReadCSV(r io.Reader) (*model.Dataset, error) {
	const op = "repository.read_csv"

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unavailable(op, errors.New("empty file"))
		}
		return nil, unavailable(op, err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, unavailable(op, err)
	}

	ds := &model.Dataset{Records: make([]model.Record, 0)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unavailable(op, err)
		}

		rec := model.Record{
			Name:    cell(row, cols.name),
			Country: cell(row, cols.country),
		}
		if rec.Name == "" || rec.Country == "" {
			ds.Skipped++
			continue
		}
		for _, m := range model.Metrics() {
			v, ok := parseFloat(cell(row, cols.metrics[m]))
			if !ok {
				ds.Nulls[m]++
				continue
			}
			rec.Values[m] = model.Some(v)
		}
		ds.Records = append(ds.Records, rec)
	}

	ds.LoadedAt = time.Now()
	return ds, nil
}

type columnIndex struct {
	name    int
	country int
	metrics []int
}

func mapColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		name:    lookup(model.ColumnUniversityName),
		country: lookup(model.ColumnCountry),
	}
	for _, m := range model.Metrics() {
		idx.metrics = append(idx.metrics, lookup(m.String()))
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func recordDatasetMetrics(ds *model.Dataset, elapsed time.Duration) {
	metrics.RecordDatasetLoadDuration(float64(elapsed.Milliseconds()))
	metrics.UpdateDatasetRows(ds.Len())
	metrics.UpdateDatasetCountries(len(model.DistinctCountries(ds.Records)))
	metrics.UpdateDatasetSkippedRows(ds.Skipped)
	for _, m := range model.Metrics() {
		metrics.UpdateDatasetNulls(m.Key(), ds.NullCount(m))
	}
}
