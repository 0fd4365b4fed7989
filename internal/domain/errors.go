package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrLockHeld            = errors.New("lock already held")
	ErrProviderExhausted   = errors.New("all providers failed")
	ErrForecastUnavailable = errors.New("forecast unavailable")
	ErrInvalidForecast     = errors.New("forecast failed schema validation")
	ErrNoProviders         = errors.New("no provider configured")
)
