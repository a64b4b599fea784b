package penalty

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// DaysBetween returns the whole calendar days from due to filing.
// Both values are plain calendar dates, so no time-of-day or zone shifting
// applies. A filing date before the due date is an error, never clamped.
func DaysBetween(due, filing civil.Date) (int, error) {
	if !due.IsValid() {
		return 0, fmt.Errorf("%w: due date %s", ErrInvalidDate, due)
	}
	if !filing.IsValid() {
		return 0, fmt.Errorf("%w: filing date %s", ErrInvalidDate, filing)
	}
	if filing.Before(due) {
		return 0, fmt.Errorf("%w: filing date %s is before due date %s", ErrInvalidDate, filing, due)
	}
	return filing.DaysSince(due), nil
}
