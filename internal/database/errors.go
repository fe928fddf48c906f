package database

import "errors"

var (
	// ErrNotFound отсутствующая запись.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is raised before any store write when a required field is
	// missing; it never reaches sqlite.
	ErrValidation = errors.New("validation failed")

	// ErrSlotUnavailable rejects a reschedule into a time outside the legal
	// slot set for the day.
	ErrSlotUnavailable = errors.New("requested time is not available")

	// ErrClientHasAppointments distinguishes the referential-integrity case
	// on client delete from a generic storage failure.
	ErrClientHasAppointments = errors.New("client has linked appointments")
)
