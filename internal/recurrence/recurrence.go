// Package recurrence expands a task recurrence specification into the
// concrete calendar dates on which task instances must exist.
package recurrence

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/ascend/internal/constants"
	apperrors "github.com/julianstephens/ascend/internal/errors"
	"github.com/julianstephens/ascend/internal/utils"
)

// Kind identifies the shape of a recurrence pattern.
type Kind string

const (
	KindSimple     Kind = "simple"
	KindDaysOfWeek Kind = "days_of_week"
	KindDayOfMonth Kind = "day_of_month"
)

// Unit is the stepping unit of a simple pattern.
type Unit string

const (
	UnitDay  Unit = "day"
	UnitYear Unit = "year"
)

// Pattern is one of simple(interval, unit), days_of_week(set) or day_of_month(n).
type Pattern struct {
	Kind       Kind           `json:"kind" validate:"required,oneof=simple days_of_week day_of_month"`
	Interval   int            `json:"interval,omitempty"`
	Unit       Unit           `json:"unit,omitempty"`
	Weekdays   []time.Weekday `json:"weekdays,omitempty"`
	DayOfMonth int            `json:"day_of_month,omitempty"`
}

// Spec is a complete recurrence request. Start and End are calendar dates;
// any time-of-day component is ignored.
type Spec struct {
	Start   time.Time  `json:"start_date"`
	End     *time.Time `json:"end_date,omitempty"`
	Pattern Pattern    `json:"pattern"`
}

// Simple builds a simple pattern.
func Simple(interval int, unit Unit) Pattern {
	return Pattern{Kind: KindSimple, Interval: interval, Unit: unit}
}

// DaysOfWeek builds a days_of_week pattern.
func DaysOfWeek(days ...time.Weekday) Pattern {
	return Pattern{Kind: KindDaysOfWeek, Weekdays: days}
}

// DayOfMonth builds a day_of_month pattern.
func DayOfMonth(day int) Pattern {
	return Pattern{Kind: KindDayOfMonth, DayOfMonth: day}
}

// Validate rejects specs that cannot be expanded.
func Validate(spec Spec) error {
	if spec.Start.IsZero() {
		return apperrors.MalformedRecurrence("start date is required")
	}
	if spec.End != nil && dateOnly(*spec.End).Before(dateOnly(spec.Start)) {
		return apperrors.MalformedRecurrence("end date %s is before start date %s",
			utils.FormatDate(*spec.End), utils.FormatDate(spec.Start))
	}

	p := spec.Pattern
	switch p.Kind {
	case KindSimple:
		if p.Interval < 1 {
			return apperrors.MalformedRecurrence("interval must be at least 1, got %d", p.Interval)
		}
		if p.Unit != UnitDay && p.Unit != UnitYear {
			return apperrors.MalformedRecurrence("unknown unit %q", p.Unit)
		}
	case KindDaysOfWeek:
		if len(p.Weekdays) == 0 {
			return apperrors.MalformedRecurrence("days_of_week requires at least one weekday")
		}
		for _, wd := range p.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return apperrors.MalformedRecurrence("invalid weekday %d", wd)
			}
		}
	case KindDayOfMonth:
		if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
			return apperrors.MalformedRecurrence("day of month must be between 1 and 31, got %d", p.DayOfMonth)
		}
	default:
		return apperrors.MalformedRecurrence("unknown pattern kind %q", p.Kind)
	}
	return nil
}

// Generate expands spec into an ascending list of dates (midnight, in the
// location of spec.Start). It is a pure function of spec. Output beyond a
// pattern's cap is dropped silently.
func Generate(spec Spec) ([]time.Time, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	start := dateOnly(spec.Start)
	end := start.AddDate(0, 0, constants.RecurrenceDefaultHorizon)
	if spec.End != nil {
		e := *spec.End
		end = time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, start.Location())
	}

	switch spec.Pattern.Kind {
	case KindSimple:
		if spec.Pattern.Unit == UnitYear {
			return stepYears(start, end, spec.Pattern.Interval), nil
		}
		return stepDays(start, end, spec.Pattern.Interval), nil
	case KindDaysOfWeek:
		return weekdays(start, end, spec.Pattern.Weekdays), nil
	default:
		return monthDays(start, end, spec.Pattern.DayOfMonth), nil
	}
}

// stepDays emits start alone when one interval already overshoots end, so the
// date arithmetic never sees an interval larger than the range.
func stepDays(start, end time.Time, interval int) []time.Time {
	if span := int(math.Round(end.Sub(start).Hours() / 24)); interval > span {
		return []time.Time{start}
	}
	var out []time.Time
	for d := start; !d.After(end) && len(out) < constants.RecurrenceSimpleCap; d = d.AddDate(0, 0, interval) {
		out = append(out, d)
	}
	return out
}

// stepYears keeps the start's month and day; Feb 29 falls back to Feb 28 in
// non-leap years instead of rolling into March.
func stepYears(start, end time.Time, interval int) []time.Time {
	if interval > end.Year()-start.Year() {
		return []time.Time{start}
	}
	var out []time.Time
	for k := 0; len(out) < constants.RecurrenceSimpleCap; k++ {
		d := clampedDate(start.Year()+k*interval, start.Month(), start.Day(), start.Location())
		if d.After(end) {
			break
		}
		out = append(out, d)
	}
	return out
}

// weekdays walks week by week from the Sunday on or before start.
func weekdays(start, end time.Time, days []time.Weekday) []time.Time {
	set := uniqueSorted(days)
	weekStart := start.AddDate(0, 0, -int(start.Weekday()))

	var out []time.Time
	for ; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		for _, wd := range set {
			d := weekStart.AddDate(0, 0, int(wd))
			if d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, d)
			if len(out) >= constants.RecurrenceWeekdayCap {
				return out
			}
		}
	}
	return out
}

func monthDays(start, end time.Time, day int) []time.Time {
	var out []time.Time
	year, month := start.Year(), start.Month()
	for len(out) < constants.RecurrenceMonthDayCap {
		d := clampedDate(year, month, day, start.Location())
		month++
		if month > time.December {
			month = time.January
			year++
		}
		if d.Before(start) {
			continue
		}
		if d.After(end) {
			break
		}
		out = append(out, d)
	}
	return out
}

func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := utils.DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func uniqueSorted(days []time.Weekday) []time.Weekday {
	seen := map[time.Weekday]bool{}
	var out []time.Weekday
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dateOnly(t time.Time) time.Time {
	return utils.StartOfDay(t)
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday, 6=Saturday).
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := weekdayNames[part]; ok {
			out = append(out, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		out = append(out, time.Weekday(num))
	}
	return out, nil
}

// Describe renders a pattern for display.
func Describe(p Pattern) string {
	switch p.Kind {
	case KindSimple:
		if p.Interval == 1 {
			if p.Unit == UnitYear {
				return "yearly"
			}
			return "daily"
		}
		return fmt.Sprintf("every %d %ss", p.Interval, p.Unit)
	case KindDaysOfWeek:
		var names []string
		for _, wd := range uniqueSorted(p.Weekdays) {
			names = append(names, wd.String()[:3])
		}
		return "weekly on " + strings.Join(names, ",")
	case KindDayOfMonth:
		return fmt.Sprintf("monthly on day %d", p.DayOfMonth)
	default:
		return "once"
	}
}
