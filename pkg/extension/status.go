package extension

import "strings"

// ConnectionStatus is the raw connection status string reported by the
// extension.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusPending      ConnectionStatus = "pending"
	StatusConnected    ConnectionStatus = "connected"
)

// Connection is the normalized meaning of a ConnectionStatus.
type Connection int

const (
	Disconnected Connection = iota
	Pending
	Connected
)

func (c Connection) String() string {
	switch c {
	case Pending:
		return "pending"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// UnknownStatusPolicy decides how a status outside the known set is read.
type UnknownStatusPolicy int

const (
	// Permissive treats unknown statuses as connected.
	Permissive UnknownStatusPolicy = iota
	// Strict treats unknown statuses as disconnected.
	Strict
)

func normalize(status ConnectionStatus) ConnectionStatus {
	return ConnectionStatus(strings.ToLower(strings.TrimSpace(string(status))))
}

// Known reports whether status is empty or one of the recognized values.
func Known(status ConnectionStatus) bool {
	switch normalize(status) {
	case "", StatusDisconnected, StatusPending, StatusConnected:
		return true
	}
	return false
}

// Classify normalizes a raw status. Empty and whitespace-only values are
// disconnected. Unknown values are resolved by policy; see Known.
func Classify(status ConnectionStatus, policy UnknownStatusPolicy) Connection {
	switch normalize(status) {
	case "", StatusDisconnected:
		return Disconnected
	case StatusPending:
		return Pending
	case StatusConnected:
		return Connected
	}
	if policy == Strict {
		return Disconnected
	}
	return Connected
}

// IsConnected is shorthand for Classify(...) == Connected.
func IsConnected(status ConnectionStatus, policy UnknownStatusPolicy) bool {
	return Classify(status, policy) == Connected
}
