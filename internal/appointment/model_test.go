package appointment

import "testing"

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusConfirmed, true},
		{StatusRejected, true},
		{StatusPending, false},
		{"cancelled", false},
		{"", false},
		{"CONFIRMED", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestValidateBooking(t *testing.T) {
	valid := BookRequest{
		DoctorID:        "8f14e45f-ceea-41f7-8b3a-1b5c9a2d3e4f",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "09:30",
	}
	if errs := validateBooking(valid); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}

	tests := []struct {
		name  string
		mut   func(*BookRequest)
		field string
	}{
		{"missing doctor", func(r *BookRequest) { r.DoctorID = "" }, "doctor_id"},
		{"bad date", func(r *BookRequest) { r.AppointmentDate = "15/09/2026" }, "appointment_date"},
		{"bad time", func(r *BookRequest) { r.AppointmentTime = "9h30" }, "appointment_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mut(&req)
			errs := validateBooking(req)
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("Expected error on %s, got %v", tt.field, errs)
			}
		})
	}
}
