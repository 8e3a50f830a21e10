package reports

import (
	"time"

	"github.com/senecapartners/seneca-cms-backend/utils"
)

// DateRange is an inclusive range of calendar days; nil bounds are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange reads optional start_date/end_date values in "2006-01-02" format.
func ParseDateRange(startStr, endStr string, loc *time.Location) (DateRange, error) {
	start, err := utils.ParseDate(startStr, loc)
	if err != nil {
		return DateRange{}, err
	}
	end, err := utils.ParseDate(endStr, loc)
	if err != nil {
		return DateRange{}, err
	}
	if start != nil && end != nil && start.After(*end) {
		return DateRange{}, utils.NewValidationError("start_date must be before end_date")
	}
	return DateRange{Start: start, End: end}, nil
}

// EndExclusive is the first instant after the end day, so the whole end day is included.
func (r DateRange) EndExclusive() *time.Time {
	if r.End == nil {
		return nil
	}
	next := r.End.AddDate(0, 0, 1)
	return &next
}
