package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrPatientIDRequired       = errors.New("appointment requires a patient ID")
)
