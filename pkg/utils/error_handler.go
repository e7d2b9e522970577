package utils

import "fmt"

// ErrorHandler logs err under message and returns the wrapped error. A nil
// err passes through untouched so callers can chain it on any return.
func ErrorHandler(err error, message string) error {
	if err == nil {
		return nil
	}
	Logger.WithError(err).Error(message)
	return fmt.Errorf("%s: %w", message, err)
}
