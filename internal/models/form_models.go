package models

import (
	"bytes"
	"encoding/json"
)

// FormValue is a form field that may arrive as a JSON string or a JSON number.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

// ServiceForm is the raw service form as submitted by the operator.
type ServiceForm struct {
	Name        string    `json:"name"`
	Price       FormValue `json:"price"`
	Duration    FormValue `json:"duration"`
	Description string    `json:"description"`
}

// AppointmentForm is the raw booking form.
type AppointmentForm struct {
	ClientName    string `json:"clientName"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ServiceID     string `json:"serviceId"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	Attended      bool   `json:"attended"`
}
