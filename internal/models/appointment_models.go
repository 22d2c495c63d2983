package models

// Appointment is one client booking of one service at a date and time.
type Appointment struct {
	ID            string `json:"id"`
	ClientName    string `json:"clientName"`
	Phone         string `json:"phone"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM
	ServiceID     string `json:"serviceId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	Attended      bool   `json:"attended"`
}

// AppointmentFields is an Appointment without its store-assigned id.
type AppointmentFields struct {
	ClientName    string `json:"clientName"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ServiceID     string `json:"serviceId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	Attended      bool   `json:"attended"`
}

// Fields strips the id.
func (a Appointment) Fields() AppointmentFields {
	return AppointmentFields{
		ClientName:    a.ClientName,
		Phone:         a.Phone,
		Date:          a.Date,
		Time:          a.Time,
		ServiceID:     a.ServiceID,
		PaymentMethod: a.PaymentMethod,
		Notes:         a.Notes,
		Attended:      a.Attended,
	}
}

// WithID builds the full record.
func (f AppointmentFields) WithID(id string) Appointment {
	return Appointment{
		ID:            id,
		ClientName:    f.ClientName,
		Phone:         f.Phone,
		Date:          f.Date,
		Time:          f.Time,
		ServiceID:     f.ServiceID,
		PaymentMethod: f.PaymentMethod,
		Notes:         f.Notes,
		Attended:      f.Attended,
	}
}

// PaymentMethods are the suggestions offered by the booking form. Any other text is
// accepted as well.
var PaymentMethods = []string{
	"Pix",
	"Dinheiro",
	"Crédito (1x)",
	"Crédito (2x)",
	"Débito",
}
