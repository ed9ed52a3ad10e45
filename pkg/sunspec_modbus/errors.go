package sunspec_modbus

import "fmt"

// ConnectionError reports a Modbus transport failure: unreachable host,
// timeout or a response that does not look like a SunSpec device.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("sunspec: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DataError reports a field missing from a reading or a code absent from a
// lookup table.
type DataError struct {
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("sunspec: field %q: %s", e.Field, e.Reason)
}

func connectionError(op string, err error) error {
	return &ConnectionError{Op: op, Err: err}
}
