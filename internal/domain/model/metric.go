package model

import (
	"fmt"
	"strings"
)

// Metric names one of the selectable numeric columns of the rankings table.
type Metric int

// Selectable metrics, in the order they are offered to users.
const (
	OverallScore Metric = iota
	CitationsPerPaper
	PapersPerFaculty
	AcademicReputation
	FacultyStudentRatio
	StaffWithPhD
	InternationalResearchCenter
	InternationalStudents
	EmployerReputation
	OutboundExchange
	InboundExchange

	metricCount
)

// Column headers of the non-metric fields.
const (
	ColumnUniversityName = "University Name"
	ColumnCountry        = "Country"
)

var metricColumns = [metricCount]string{
	OverallScore:                "Overall Score",
	CitationsPerPaper:           "Citations per Paper",
	PapersPerFaculty:            "Papers per Faculty",
	AcademicReputation:          "Academic Reputation",
	FacultyStudentRatio:         "Faculty Student Ratio",
	StaffWithPhD:                "Staff with PhD",
	InternationalResearchCenter: "International Research Center",
	InternationalStudents:       "International Students",
	EmployerReputation:          "Employer Reputation",
	OutboundExchange:            "Outbound Exchange",
	InboundExchange:             "Inbound Exchange",
}

// Metrics returns every selectable metric in display order.
func Metrics() []Metric {
	out := make([]Metric, metricCount)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool { return m >= 0 && m < metricCount }

// String returns the exact CSV column header of the metric.
func (m Metric) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Metric(%d)", int(m))
	}
	return metricColumns[m]
}

// Key returns the snake_case identifier used in URLs and JSON.
func (m Metric) Key() string {
	return strings.ReplaceAll(strings.ToLower(m.String()), " ", "_")
}

// ParseMetric resolves a column header ("Staff with PhD") or key
// ("staff_with_phd"), case-insensitively.
func ParseMetric(s string) (Metric, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", " ")
	for i, col := range metricColumns {
		if strings.ToLower(col) == norm {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}
