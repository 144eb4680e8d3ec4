package util

import "strings"

// CleanedUpError wraps an error whose details were already shown to the
// user. Its message keeps only the first line so the final error printed by
// the root command stays short.
type CleanedUpError struct {
	Err error
}

func (e CleanedUpError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	msg := e.Err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(msg)
}

func (e CleanedUpError) Unwrap() error { return e.Err }
