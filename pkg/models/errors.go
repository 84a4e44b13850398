package models

import "errors"

var (
	// ErrInputFormat means the dataset is unreadable or lacks required columns.
	ErrInputFormat = errors.New("input format error")
	// ErrExternalService means the model service call failed.
	ErrExternalService = errors.New("external service error")
	// ErrPersistence means results or the chart could not be written.
	ErrPersistence = errors.New("persistence error")
)
