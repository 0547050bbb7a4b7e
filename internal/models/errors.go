package models

import "errors"

// Custom errors
var (
	ErrCompanyNameRequired = errors.New("company name is required")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key violation")
	ErrInvalidID           = errors.New("invalid ID format")
	ErrUnknownSortColumn   = errors.New("unknown sort column")
)
