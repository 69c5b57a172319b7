package quota

import (
	"fmt"
	"time"
)

// Window is a half-open time interval [Start, End) within which requests
// are counted. All window arithmetic is performed in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// HourWindow returns the window for the UTC hour containing now.
func HourWindow(now time.Time) Window {
	utc := now.UTC()
	start := time.Date(utc.Year(), utc.Month(), utc.Day(), utc.Hour(), 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.Add(time.Hour)}
}

// DayWindow returns the window for the UTC calendar day containing now.
func DayWindow(now time.Time) Window {
	utc := now.UTC()
	start := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// SubscriptionMonthWindow returns the subscription-month window containing
// now. Monthly windows are phase-aligned to the anchor's day of month rather
// than the calendar month: a subscription started on the 15th renews on the
// 15th. When the current month is shorter than the anchor day, the boundary
// clamps to the month's last day (anchor on the 31st gives a February
// boundary on the 28th or 29th). A nil anchor falls back to calendar months.
func SubscriptionMonthWindow(anchor *time.Time, now time.Time) Window {
	day := 1
	if anchor != nil {
		day = anchor.UTC().Day()
	}

	utc := now.UTC()
	start := monthBoundary(utc.Year(), utc.Month(), day)
	if start.After(utc) {
		// boundary of this month is still ahead, the window opened last month
		start = monthBoundary(utc.Year(), utc.Month()-1, day)
	}

	// time.Date normalizes month 13 to January of the next year
	end := monthBoundary(start.Year(), start.Month()+1, day)

	return Window{Start: start, End: end}
}

// monthBoundary returns 00:00 UTC on the boundary day of the given month,
// clamping day to the month's length.
func monthBoundary(year int, month time.Month, day int) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WindowFor computes the window of the given period type containing now.
// The anchor is only consulted for monthly windows.
func WindowFor(pt PeriodType, anchor *time.Time, now time.Time) (Window, error) {
	switch pt {
	case PeriodTypeHourly:
		return HourWindow(now), nil
	case PeriodTypeDaily:
		return DayWindow(now), nil
	case PeriodTypeMonthly:
		return SubscriptionMonthWindow(anchor, now), nil
	default:
		return Window{}, fmt.Errorf("invalid period type: %s", pt)
	}
}
