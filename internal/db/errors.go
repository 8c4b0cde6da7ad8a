package db

import "errors"

// ErrKeyNotFound is returned when the requested key does not exist.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpGet     = "GET"
	OpJSONGet = "JSON.GET"
	OpScan    = "SCAN"
	OpPing    = "PING"
	OpConnect = "CONNECT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
