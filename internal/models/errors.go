package models

import "errors"

// Ошибки валидации входных данных.
var (
	ErrValidation = errors.New("validation failed")
)

// Ошибки хранилища. Становятся причиной (%w) конкретных ошибок записи
// и чтения, чтобы вызывающий мог классифицировать сбой через errors.Is.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreFull        = errors.New("store full")
	ErrStoreCorrupt     = errors.New("store corrupt")
)
