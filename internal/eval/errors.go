package eval

import "fmt"

// ConfigError reports an invalid evaluation setup: bad concurrency, malformed
// parametrize rows, undeclared parameters, or an unusable score. It is raised
// before any descriptor executes and aborts the whole run request.
type ConfigError struct {
	Message string
}

// Error returns the configuration error message.
func (e *ConfigError) Error() string {
	return e.Message
}

// ConfigErrorf builds a ConfigError from a format string.
func ConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// CheckError marks a failed validation check inside a case body. The runner
// converts it into a failing score on the result instead of an execution
// error; every other error type is recorded on the result's error field.
type CheckError struct {
	Message string
}

// Error returns the check failure message.
func (e *CheckError) Error() string {
	return e.Message
}

// Check returns nil when cond holds, otherwise a CheckError carrying msg.
func Check(cond bool, msg string) error {
	if cond {
		return nil
	}
	if msg == "" {
		msg = "check failed"
	}
	return &CheckError{Message: msg}
}

// Failf builds a CheckError from a format string.
func Failf(format string, args ...any) error {
	return &CheckError{Message: fmt.Sprintf(format, args...)}
}
