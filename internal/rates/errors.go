package rates

import (
	"errors"
	"fmt"
)

// ErrRateNotFound is returned when no strategy produced a record
var ErrRateNotFound = errors.New("rate record not found")

// ConfigurationError reports a missing or unusable rate record. It aborts
// the computation of the whole payroll record and names the failing scheme.
type ConfigurationError struct {
	Scheme Scheme
	Year   int
	Canton string
	Code   string
	Err    error
}

func (e *ConfigurationError) Error() string {
	where := fmt.Sprintf("year %d", e.Year)
	if e.Canton != "" {
		where += ", canton " + e.Canton
	}
	if e.Code != "" {
		where += ", tariff " + e.Code
	}
	return fmt.Sprintf("%s configuration error (%s): %v", e.Scheme, where, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// SchemeOf returns the scheme named by a ConfigurationError anywhere in the
// chain of err, or false.
func SchemeOf(err error) (Scheme, bool) {
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return cfgErr.Scheme, true
	}
	return "", false
}
