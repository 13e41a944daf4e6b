package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMessage returns the user-facing text of err without error codes.
// Metadata is appended in key order and wrapped causes are followed.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if !errors.As(err, &customErr) {
		return err.Error()
	}

	msg := customErr.Message
	if len(customErr.Meta) > 0 {
		keys := make([]string, 0, len(customErr.Meta))
		for k := range customErr.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %v", k, customErr.Meta[k]))
		}
		msg += " (" + strings.Join(pairs, ", ") + ")"
	}
	if customErr.Cause != nil {
		msg += ": " + GetMessage(customErr.Cause)
	}
	return msg
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsFailedPrecondition checks if an error is a failed precondition error
func IsFailedPrecondition(err error) bool {
	return GetCode(err) == CodeFailedPrecondition
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}
