package availability

import (
	"pms/shared/timezone"
	"time"
)

const hoursInDay = 24

// DateRange is a stay of calendar days, half-open: the checkout day itself is not occupied.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange keeps only the calendar day of both ends.
func NewDateRange(checkin, checkout time.Time) DateRange {
	return DateRange{
		CheckIn:  timezone.TruncateDay(checkin),
		CheckOut: timezone.TruncateDay(checkout),
	}
}

func (r DateRange) Valid() bool {
	return r.CheckOut.After(r.CheckIn)
}

// Nights is the number of whole days between checkin and checkout, zero for an invalid range.
func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}

	return int(r.CheckOut.Sub(r.CheckIn).Hours() / hoursInDay)
}

// Overlaps reports whether both ranges share at least one night. Touching ranges do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// Contains reports whether day is one of the nights of the range.
func (r DateRange) Contains(day time.Time) bool {
	day = timezone.TruncateDay(day)

	return !day.Before(r.CheckIn) && day.Before(r.CheckOut)
}
