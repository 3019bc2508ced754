package domain

import "fmt"

// TimeFilterType selects how a TimeFilter bounds effective dates.
type TimeFilterType string

const (
	FilterYearRange    TimeFilterType = "year-range"
	FilterSpecificYear TimeFilterType = "specific-year"
	FilterQuarter      TimeFilterType = "quarter"
	FilterMonth        TimeFilterType = "month"
)

// TimeFilter narrows a comparison to definitions whose effective date
// falls inside one calendar period.
type TimeFilter struct {
	Type      TimeFilterType `json:"type"`
	StartYear int            `json:"startYear,omitempty"`
	EndYear   int            `json:"endYear,omitempty"`
	Year      int            `json:"year,omitempty"`
	Quarter   int            `json:"quarter,omitempty"`
	Month     int            `json:"month,omitempty"`
}

// Validate checks the fields required by the filter type.
func (f *TimeFilter) Validate() error {
	switch f.Type {
	case FilterYearRange:
		if f.StartYear <= 0 || f.EndYear <= 0 {
			return NewValidationError("timeFilter", "year-range filter requires startYear and endYear")
		}
		if f.EndYear < f.StartYear {
			return NewValidationError("timeFilter", "endYear precedes startYear")
		}
	case FilterSpecificYear:
		if f.Year <= 0 {
			return NewValidationError("timeFilter", "specific-year filter requires year")
		}
	case FilterQuarter:
		if f.Year <= 0 {
			return NewValidationError("timeFilter", "quarter filter requires year")
		}
		if f.Quarter < 1 || f.Quarter > 4 {
			return NewValidationError("timeFilter", "quarter must be between 1 and 4")
		}
	case FilterMonth:
		if f.Year <= 0 {
			return NewValidationError("timeFilter", "month filter requires year")
		}
		if f.Month < 1 || f.Month > 12 {
			return NewValidationError("timeFilter", "month must be between 1 and 12")
		}
	default:
		return NewValidationError("timeFilter", fmt.Sprintf("unknown time filter type %q", f.Type))
	}
	return nil
}

// Contains reports whether the date falls inside the filter period.
func (f *TimeFilter) Contains(d Date) bool {
	year := d.Year()
	switch f.Type {
	case FilterYearRange:
		return year >= f.StartYear && year <= f.EndYear
	case FilterSpecificYear:
		return year == f.Year
	case FilterQuarter:
		q := (int(d.Month())-1)/3 + 1
		return year == f.Year && q == f.Quarter
	case FilterMonth:
		return year == f.Year && int(d.Month()) == f.Month
	}
	return false
}
