package services

import "errors"

// Error taxonomy shared by the services. Controllers map these onto HTTP
// status codes; everything else surfaces as a generic store failure.
var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
