package handshake

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrConnectionRejected means the user declined the extension prompt.
	ErrConnectionRejected = errors.New("connection was rejected")
	// ErrConnectionTimedOut means the connection stayed unconfirmed for the
	// whole wait phase.
	ErrConnectionTimedOut = errors.New("connection is still pending")
)

const defaultSDKMessage = "Failed to connect to PeerAuth"

// SDKError wraps a failure returned by the extension itself.
type SDKError struct {
	Op  string
	Err error
}

func (e *SDKError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("peer extension: %s failed", e.Op)
	}
	return fmt.Sprintf("peer extension: %s: %v", e.Op, e.Err)
}

func (e *SDKError) Unwrap() error { return e.Err }

func wrapSDK(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &SDKError{Op: op, Err: err}
}

// UserMessage renders err as the one-line message shown next to the button.
func UserMessage(err error) string {
	var sdkErr *SDKError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectionRejected):
		return "Connection was rejected. Please approve the request."
	case errors.Is(err, ErrConnectionTimedOut):
		return "Connection is still pending. Please approve the extension request and try again."
	case errors.As(err, &sdkErr):
		if sdkErr.Err == nil || sdkErr.Err.Error() == "" {
			return defaultSDKMessage
		}
		return sdkErr.Err.Error()
	default:
		if err.Error() == "" {
			return defaultSDKMessage
		}
		return err.Error()
	}
}
