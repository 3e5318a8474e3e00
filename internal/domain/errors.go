package domain

import "errors"

var (
	// ErrRecordNotFound is returned when the source has no record with the requested ID
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownKind is returned when a record kind cannot be mapped to a tracked type
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrInvalidOperation is returned when a notification carries an unsupported operation
	ErrInvalidOperation = errors.New("invalid notifier operation")

	// ErrMalformedNotification is returned when a notifier message cannot be decoded
	ErrMalformedNotification = errors.New("malformed notification")

	// ErrMalformedFrame is returned when a notifier log frame cannot be parsed
	ErrMalformedFrame = errors.New("malformed notifier log frame")
)
