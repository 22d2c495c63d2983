package calendar

import (
	"testing"

	"agenda_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fixture() ([]models.Appointment, models.ServiceCatalog) {
	appointments := []models.Appointment{
		{ID: "a1", Date: "2024-03-05", Time: "14:00", ServiceID: "s1"},
		{ID: "a2", Date: "2024-03-05", Time: "09:30", ServiceID: "s2"},
		{ID: "a3", Date: "2024-04-01", Time: "11:00", ServiceID: "s1"},
	}
	catalog := models.NewServiceCatalog([]models.Service{
		{ID: "s1", Name: "Alongamento", Price: decimal.NewFromInt(50)},
		{ID: "s2", Name: "Manicure", Price: decimal.NewFromInt(30)},
	})
	return appointments, catalog
}

func TestComputeTotals(t *testing.T) {
	appointments, catalog := fixture()

	march := ComputeTotals(appointments, catalog, "2024-03-05")
	assert.Equal(t, "2024-03", march.SelectedMonth)
	assert.Equal(t, 2, march.CountDay)
	assert.True(t, march.TotalDay.Equal(decimal.NewFromInt(80)))
	assert.True(t, march.TotalMonth.Equal(decimal.NewFromInt(80)))

	april := ComputeTotals(appointments, catalog, "2024-04-01")
	assert.Equal(t, 1, april.CountDay)
	assert.True(t, april.TotalDay.Equal(decimal.NewFromInt(50)))
	assert.True(t, april.TotalMonth.Equal(decimal.NewFromInt(50)))

	empty := ComputeTotals(appointments, catalog, "2024-05-10")
	assert.Equal(t, 0, empty.CountDay)
	assert.True(t, empty.TotalMonth.IsZero())
}

func TestComputeTotalsDanglingServiceCountsZero(t *testing.T) {
	appointments, catalog := fixture()
	appointments = append(appointments, models.Appointment{ID: "a4", Date: "2024-03-05", ServiceID: "gone"})

	totals := ComputeTotals(appointments, catalog, "2024-03-05")
	assert.Equal(t, 3, totals.CountDay)
	assert.True(t, totals.TotalDay.Equal(decimal.NewFromInt(80)))
}

func TestComputeTotalsKeepsDecimalPrecision(t *testing.T) {
	catalog := models.NewServiceCatalog([]models.Service{{ID: "s", Price: decimal.RequireFromString("0.10")}})
	var appointments []models.Appointment
	for i := 0; i < 30; i++ {
		appointments = append(appointments, models.Appointment{Date: "2024-03-05", ServiceID: "s"})
	}
	totals := ComputeTotals(appointments, catalog, "2024-03-05")
	assert.Equal(t, "3", totals.TotalDay.String())
}

func TestDayAppointmentsSortedByTime(t *testing.T) {
	appointments := []models.Appointment{
		{ID: "x", Date: "2024-03-05", Time: "14:00"},
		{ID: "y", Date: "2024-03-05", Time: "09:30"},
		{ID: "z", Date: "2024-03-05", Time: "11:00"},
		{ID: "w", Date: "2024-03-06", Time: "08:00"},
	}
	day := DayAppointments(appointments, "2024-03-05")
	var times []string
	for _, a := range day {
		times = append(times, a.Time)
	}
	assert.Equal(t, []string{"09:30", "11:00", "14:00"}, times)
	assert.Equal(t, "14:00", appointments[0].Time, "input must not be reordered")
}

func TestDayListResolvesServices(t *testing.T) {
	appointments, catalog := fixture()
	appointments = append(appointments, models.Appointment{ID: "a4", Date: "2024-03-05", Time: "16:00", ServiceID: "gone"})

	entries := DayList(appointments, catalog, "2024-03-05", func(d decimal.Decimal) string { return d.StringFixed(2) })
	assert.Len(t, entries, 3)
	assert.Equal(t, "Manicure", entries[0].ServiceName)
	assert.Equal(t, "30.00", entries[0].PriceLabel)
	assert.Equal(t, models.MissingServiceName, entries[2].ServiceName)
	assert.True(t, entries[2].ServicePrice.IsZero())
}
