package service

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrExtractionFailed = errors.New("failed to parse document")
	ErrAIUnavailable    = errors.New("AI service unavailable")
)
