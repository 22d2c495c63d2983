package calendar

import (
	"slices"
	"strings"

	"agenda_backend/internal/models"

	"github.com/shopspring/decimal"
)

// Totals summarises the selected day and its month.
type Totals struct {
	SelectedDate  string          `json:"selectedDate"`
	SelectedMonth string          `json:"selectedMonth"`
	CountDay      int             `json:"countDay"`
	TotalDay      decimal.Decimal `json:"totalDay"`
	TotalMonth    decimal.Decimal `json:"totalMonth"`
}

// ComputeTotals counts the appointments of selectedDate and sums service prices for
// the day and for the whole month. Appointments whose service is gone count as zero.
func ComputeTotals(appointments []models.Appointment, catalog models.ServiceCatalog, selectedDate string) Totals {
	month := MonthOf(selectedDate)
	totals := Totals{
		SelectedDate:  selectedDate,
		SelectedMonth: month,
		TotalDay:      decimal.Zero,
		TotalMonth:    decimal.Zero,
	}
	for _, a := range appointments {
		price := catalog.PriceOf(a.ServiceID)
		if a.Date == selectedDate {
			totals.CountDay++
			totals.TotalDay = totals.TotalDay.Add(price)
		}
		if strings.HasPrefix(a.Date, month) {
			totals.TotalMonth = totals.TotalMonth.Add(price)
		}
	}
	return totals
}

// DayAppointments returns the appointments of date ordered by time.
func DayAppointments(appointments []models.Appointment, date string) []models.Appointment {
	day := make([]models.Appointment, 0)
	for _, a := range appointments {
		if a.Date == date {
			day = append(day, a)
		}
	}
	slices.SortStableFunc(day, func(a, b models.Appointment) int {
		return strings.Compare(a.Time, b.Time)
	})
	return day
}

// DayEntry is an appointment with its service resolved for display.
type DayEntry struct {
	models.Appointment
	ServiceName  string          `json:"serviceName"`
	ServicePrice decimal.Decimal `json:"servicePrice"`
	PriceLabel   string          `json:"priceLabel"`
}

// DayList resolves services for the appointments of date.
func DayList(appointments []models.Appointment, catalog models.ServiceCatalog, date string, format func(decimal.Decimal) string) []DayEntry {
	day := DayAppointments(appointments, date)
	entries := make([]DayEntry, 0, len(day))
	for _, a := range day {
		price := catalog.PriceOf(a.ServiceID)
		entry := DayEntry{
			Appointment:  a,
			ServiceName:  catalog.NameOf(a.ServiceID),
			ServicePrice: price,
		}
		if format != nil {
			entry.PriceLabel = format(price)
		}
		entries = append(entries, entry)
	}
	return entries
}
