package common

import (
	"errors"
	"fmt"
)

// Sentinel errors used to classify dispatch failures. Callers branch on them
// with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrProvider      = errors.New("provider error")
	ErrUnexpected    = errors.New("unexpected error")
)

// Failure categories recorded in the failure log and metrics.
const (
	CategoryConfiguration = "configuration"
	CategoryProvider      = "provider"
	CategoryUnexpected    = "unexpected"
	CategoryNone          = "ok"
)

// WrapConfiguration annotates an error as a configuration failure.
func WrapConfiguration(err error) error {
	return wrap(ErrConfiguration, err)
}

// WrapProvider annotates an error returned by the remote provider.
func WrapProvider(err error) error {
	return wrap(ErrProvider, err)
}

// WrapUnexpected annotates any other failure raised while sending.
func WrapUnexpected(err error) error {
	return wrap(ErrUnexpected, err)
}

func wrap(kind, err error) error {
	if err == nil {
		return kind
	}
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// Category maps an error to its failure category. Errors that carry none of
// the sentinels are treated as unexpected.
func Category(err error) string {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrConfiguration):
		return CategoryConfiguration
	case errors.Is(err, ErrProvider):
		return CategoryProvider
	default:
		return CategoryUnexpected
	}
}
