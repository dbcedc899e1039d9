// Package recurrence computes how much a possibly recurring transaction
// contributes to a reporting window, and when it next falls due.
//
// Spans are counted in coarse calendar units rather than elapsed time: a
// monthly item from 15 January to 1 March spans two months, and a weekly
// item spans the difference of ISO week numbers.
package recurrence

import (
	"time"

	"github.com/shopspring/decimal"

	"pennywise/internal/models"
)

// Window is an inclusive, day-granular reporting interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window covering the whole calendar days from start
// through end.
func NewWindow(start, end time.Time) Window {
	return Window{Start: DayStart(start), End: DayEnd(end)}
}

// Contains reports whether t lies within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayStart truncates t to midnight in UTC.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayEnd returns the last instant of t's calendar day in UTC.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Stepper is the per-cycle calendar arithmetic.
type Stepper interface {
	// Span counts whole cycle units between the calendar dates of l and u.
	Span(l, u time.Time) int
	// Step returns the k-th occurrence after anchor.
	Step(anchor time.Time, k int) time.Time
}

type dailyStepper struct{}

func (dailyStepper) Span(l, u time.Time) int {
	return int(DayStart(u).Sub(DayStart(l)).Hours() / 24)
}

func (dailyStepper) Step(anchor time.Time, k int) time.Time {
	return anchor.AddDate(0, 0, k)
}

type weeklyStepper struct{}

// weeksPerISOYear extends the ISO week difference across year boundaries.
const weeksPerISOYear = 52

func (weeklyStepper) Span(l, u time.Time) int {
	ly, lw := l.ISOWeek()
	uy, uw := u.ISOWeek()
	return (uw - lw) + weeksPerISOYear*(uy-ly)
}

func (weeklyStepper) Step(anchor time.Time, k int) time.Time {
	return anchor.AddDate(0, 0, 7*k)
}

type monthlyStepper struct{}

func (monthlyStepper) Span(l, u time.Time) int {
	return int(u.Month()-l.Month()) + 12*(u.Year()-l.Year())
}

func (monthlyStepper) Step(anchor time.Time, k int) time.Time {
	return addMonthsClamped(anchor, k)
}

type yearlyStepper struct{}

func (yearlyStepper) Span(l, u time.Time) int {
	return u.Year() - l.Year()
}

func (yearlyStepper) Step(anchor time.Time, k int) time.Time {
	return addMonthsClamped(anchor, 12*k)
}

var steppers = map[models.Cycle]Stepper{
	models.CycleDaily:   dailyStepper{},
	models.CycleWeekly:  weeklyStepper{},
	models.CycleMonthly: monthlyStepper{},
	models.CycleYearly:  yearlyStepper{},
}

// StepperFor returns the arithmetic for a recurring cycle, or false for
// CycleNone and unknown cycles.
func StepperFor(c models.Cycle) (Stepper, bool) {
	s, ok := steppers[c]
	return s, ok
}

// Overlaps reports whether a recurring item running from start to end (nil
// meaning open-ended) intersects the window.
func Overlaps(start time.Time, end *time.Time, w Window) bool {
	if DayStart(start).After(w.End) {
		return false
	}
	return end == nil || !DayStart(*end).Before(DayStart(w.Start))
}

// Span returns the number of cycle units a recurring item running from start
// to end contributes within w, never less than zero.
func Span(c models.Cycle, start time.Time, end *time.Time, w Window) int {
	s, ok := StepperFor(c)
	if !ok {
		return 0
	}
	l := maxTime(DayStart(start), w.Start)
	u := w.End
	if end != nil {
		u = minTime(DayEnd(*end), w.End)
	}
	if u.Before(l) {
		return 0
	}
	n := s.Span(l, u)
	if n < 0 {
		return 0
	}
	return n
}

// Contribution returns the amount tx attributes to w and whether tx belongs
// in the window at all. A recurring transaction may be included with a zero
// contribution when the overlap is shorter than one cycle unit.
func Contribution(tx *models.Transaction, w Window) (decimal.Decimal, bool) {
	if !tx.Cycle.Recurring() {
		if w.Contains(tx.CreatedAt) {
			return tx.Amount, true
		}
		return decimal.Zero, false
	}
	if tx.StartDate == nil || !Overlaps(*tx.StartDate, tx.EndDate, w) {
		return decimal.Zero, false
	}
	n := Span(tx.Cycle, *tx.StartDate, tx.EndDate, w)
	return tx.Amount.Mul(decimal.NewFromInt(int64(n))), true
}

// NextOccurrence returns the first occurrence on or after the calendar day of
// after, stepping from anchor. It returns false when the item is not
// recurring or the next occurrence would fall after end.
func NextOccurrence(c models.Cycle, anchor time.Time, end *time.Time, after time.Time) (time.Time, bool) {
	s, ok := StepperFor(c)
	if !ok {
		return time.Time{}, false
	}
	anchor = DayStart(anchor)
	target := DayStart(after)

	next := anchor
	if next.Before(target) {
		// Jump close to the target before stepping one unit at a time.
		k := s.Span(anchor, target)
		if k < 0 {
			k = 0
		}
		next = s.Step(anchor, k)
		for next.Before(target) {
			k++
			next = s.Step(anchor, k)
		}
	}

	if end != nil && next.After(DayStart(*end)) {
		return time.Time{}, false
	}
	return next, true
}

// addMonthsClamped adds n months keeping the anchor's day of month, clamped
// to the length of the target month (31 January + 1 month = 29 February).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
