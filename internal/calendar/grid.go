// Package calendar holds the pure date arithmetic behind the agenda screen: the month
// grid, booking time slots, and the day/month totals.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"

	GridCells = 42 // 6 weeks of 7 days, weeks start on Sunday
)

var (
	ErrInvalidMonth = errors.New("invalid month, use YYYY-MM")
	ErrInvalidDate  = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidTime  = errors.New("invalid time, use HH:MM")
)

// Day is one cell of the month grid.
type Day struct {
	Date           string `json:"date"`
	DayOfMonth     int    `json:"dayOfMonth"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
	IsToday        bool   `json:"isToday"`
	IsSelected     bool   `json:"isSelected"`
}

func parseMonth(viewMonth string) (time.Time, error) {
	first, err := time.Parse(MonthLayout, strings.TrimSpace(viewMonth))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, viewMonth)
	}
	return first, nil
}

// BuildMonthGrid lays out viewMonth as 42 cells: the tail of the previous month up to
// the first Sunday, every day of the month, then the head of the next month.
func BuildMonthGrid(viewMonth, selectedDate, today string) ([]Day, error) {
	first, err := parseMonth(viewMonth)
	if err != nil {
		return nil, err
	}

	start := first.AddDate(0, 0, -int(first.Weekday()))
	days := make([]Day, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		date := d.Format(DateLayout)
		days = append(days, Day{
			Date:           date,
			DayOfMonth:     d.Day(),
			IsCurrentMonth: d.Year() == first.Year() && d.Month() == first.Month(),
			IsToday:        date == today,
			IsSelected:     date == selectedDate,
		})
	}
	return days, nil
}

// DaysInMonth is the number of days of viewMonth.
func DaysInMonth(viewMonth string) (int, error) {
	first, err := parseMonth(viewMonth)
	if err != nil {
		return 0, err
	}
	return first.AddDate(0, 1, -1).Day(), nil
}

// ShiftMonth moves viewMonth by delta months, e.g. ("2024-12", 1) -> "2025-01".
func ShiftMonth(viewMonth string, delta int) (string, error) {
	first, err := parseMonth(viewMonth)
	if err != nil {
		return "", err
	}
	return first.AddDate(0, delta, 0).Format(MonthLayout), nil
}

// MonthOf is the YYYY-MM prefix of a date.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// Today formats now as a date in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return now.In(loc).Format(DateLayout)
}

// ValidateDate checks a YYYY-MM-DD string.
func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

// ValidateMonth checks a YYYY-MM string.
func ValidateMonth(month string) error {
	if len(month) != len(MonthLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	_, err := parseMonth(month)
	return err
}
