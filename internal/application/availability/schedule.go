package availability

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"offerings-backend/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrPastDate is returned when a date before today is added.
var ErrPastDate = fmt.Errorf("%w: date is in the past", domain.ErrValidationFailed)

// Mode tells consumers how to present the time entries of a listing.
type Mode string

const (
	ModeNone        Mode = "none"
	ModeInformative Mode = "informative"
	ModeSelector    Mode = "selector"
)

// ParseDate normalizes a calendar date to YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", domain.ErrValidationFailed, s)
	}
	return t.Format(DateLayout), nil
}

// ParseTime normalizes a time of day to HH:MM.
func ParseTime(s string) (string, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: invalid time %q", domain.ErrValidationFailed, s)
	}
	return t.Format(TimeLayout), nil
}

// AddDate inserts day into dates, keeping the set sorted. Dates before the calendar
// day of now, taken in now's location, are rejected; a date already present is a
// no-op. The listing service passes UTC.
func AddDate(dates domain.DateSet, day string, now time.Time) (domain.DateSet, error) {
	d, err := ParseDate(day)
	if err != nil {
		return dates, err
	}
	if d < now.Format(DateLayout) {
		return dates, ErrPastDate
	}
	i := sort.SearchStrings(dates, d)
	if i < len(dates) && dates[i] == d {
		return dates, nil
	}
	out := make(domain.DateSet, 0, len(dates)+1)
	out = append(out, dates[:i]...)
	out = append(out, d)
	return append(out, dates[i:]...), nil
}

// RemoveDate drops day and any time entries attached to it. Removing is always permitted.
func RemoveDate(l *domain.Listing, day string) error {
	d, err := ParseDate(day)
	if err != nil {
		return err
	}
	i := sort.SearchStrings(l.AvailableDates, d)
	if i < len(l.AvailableDates) && l.AvailableDates[i] == d {
		l.AvailableDates = append(l.AvailableDates[:i:i], l.AvailableDates[i+1:]...)
	}
	times := l.Times().Clone()
	if _, ok := times[d]; ok {
		delete(times, d)
		l.SetTimes(times)
	}
	return nil
}

// AddTime attaches a time entry to one of the listing dates. Only therapy listings take them.
func AddTime(l *domain.Listing, day, at string) error {
	if !l.Category.UsesTimeSlots() {
		return fmt.Errorf("%w: %s listings do not take per-date times", domain.ErrValidationFailed, l.Category)
	}
	d, err := ParseDate(day)
	if err != nil {
		return err
	}
	if !l.AvailableDates.Contains(d) {
		return fmt.Errorf("%w: %s is not an available date", domain.ErrValidationFailed, d)
	}
	tm, err := ParseTime(at)
	if err != nil {
		return err
	}
	times := l.Times().Clone()
	if times == nil {
		times = domain.TimeSlots{}
	}
	slot := times[d]
	i := sort.SearchStrings(slot, tm)
	if i < len(slot) && slot[i] == tm {
		return nil
	}
	slot = append(slot, "")
	copy(slot[i+1:], slot[i:])
	slot[i] = tm
	times[d] = slot
	l.SetTimes(times)
	return nil
}

// RemoveTime detaches a time entry. Unknown entries are ignored.
func RemoveTime(l *domain.Listing, day, at string) error {
	d, err := ParseDate(day)
	if err != nil {
		return err
	}
	tm, err := ParseTime(at)
	if err != nil {
		return err
	}
	times := l.Times().Clone()
	slot := times[d]
	i := sort.SearchStrings(slot, tm)
	if i >= len(slot) || slot[i] != tm {
		return nil
	}
	slot = append(slot[:i:i], slot[i+1:]...)
	if len(slot) == 0 {
		delete(times, d)
	} else {
		times[d] = slot
	}
	l.SetTimes(times)
	return nil
}

// SetFixedTime sets the single time shared by every date of an event. An empty value clears it.
func SetFixedTime(l *domain.Listing, at string) error {
	if strings.TrimSpace(at) == "" {
		l.FixedTime = ""
		return nil
	}
	if !l.Category.UsesFixedTime() {
		return fmt.Errorf("%w: %s listings do not take a fixed time", domain.ErrValidationFailed, l.Category)
	}
	tm, err := ParseTime(at)
	if err != nil {
		return err
	}
	l.FixedTime = tm
	return nil
}

// ModeOf derives the presentation mode from the number of time entries across all dates.
func ModeOf(times domain.TimeSlots) Mode {
	switch n := times.Count(); {
	case n == 0:
		return ModeNone
	case n == 1:
		return ModeInformative
	default:
		return ModeSelector
	}
}

// TimeModeOf derives the presentation mode of a listing. An event fixed time is informative.
func TimeModeOf(l *domain.Listing) Mode {
	switch {
	case l.Category.UsesTimeSlots():
		return ModeOf(l.Times())
	case l.Category.UsesFixedTime() && l.FixedTime != "":
		return ModeInformative
	default:
		return ModeNone
	}
}

// Schedule is the scheduling input of a draft or edit.
type Schedule struct {
	Dates     []string            `json:"available_dates"`
	Times     map[string][]string `json:"available_times"`
	FixedTime string              `json:"fixed_time"`
}

// ApplySchedule replaces the scheduling fields of l with s. Past dates are dropped
// silently, along with their times; fields that the category does not use are cleared.
func ApplySchedule(l *domain.Listing, s Schedule, now time.Time) error {
	var dates domain.DateSet
	for _, day := range s.Dates {
		next, err := AddDate(dates, day, now)
		if errors.Is(err, ErrPastDate) {
			continue
		}
		if err != nil {
			return err
		}
		dates = next
	}

	staged := l.Clone()
	staged.AvailableDates = dates
	staged.SetTimes(nil)
	staged.FixedTime = ""

	if staged.Category.UsesTimeSlots() {
		days := make([]string, 0, len(s.Times))
		for day := range s.Times {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			d, err := ParseDate(day)
			if err != nil {
				return err
			}
			if d < now.Format(DateLayout) {
				continue
			}
			for _, at := range s.Times[day] {
				if err := AddTime(staged, d, at); err != nil {
					return err
				}
			}
		}
	}
	if staged.Category.UsesFixedTime() {
		if err := SetFixedTime(staged, s.FixedTime); err != nil {
			return err
		}
	}

	l.AvailableDates = staged.AvailableDates
	l.AvailableTimes = staged.AvailableTimes
	l.FixedTime = staged.FixedTime
	return nil
}

// KeepTimesWithinDates drops time entries whose date is not in s.Dates.
// Unparseable keys are kept so ApplySchedule reports them.
func (s Schedule) KeepTimesWithinDates() Schedule {
	listed := make(map[string]bool, len(s.Dates))
	for _, day := range s.Dates {
		if d, err := ParseDate(day); err == nil {
			listed[d] = true
		}
	}
	kept := make(map[string][]string, len(s.Times))
	for day, at := range s.Times {
		if d, err := ParseDate(day); err != nil || listed[d] {
			kept[day] = at
		}
	}
	s.Times = kept
	return s
}

// ScheduleOf returns the current scheduling fields of l.
func ScheduleOf(l *domain.Listing) Schedule {
	return Schedule{
		Dates:     append([]string(nil), l.AvailableDates...),
		Times:     l.Times().Clone(),
		FixedTime: l.FixedTime,
	}
}
