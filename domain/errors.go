package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownLeaseField   = errors.New("unknown lease field")
	ErrUnknownTaxTreatment = errors.New("unknown tax treatment")
)
