package lovense

import "fmt"

// PairingError signals a failure while obtaining or processing pairing
// material through the relay API.
type PairingError struct {
	Code    int
	Message string
	Err     error
}

func (e *PairingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pairing error: %s", e.Err)
	}
	return fmt.Sprintf("pairing error %d: %s", e.Code, e.Message)
}

func (e *PairingError) Unwrap() error {
	return e.Err
}

// TransportError signals a failed exchange with a local endpoint or the
// relay command API, either at the HTTP level or through a non-success
// vendor status code.
type TransportError struct {
	Code    int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %s", e.Err)
	}
	return fmt.Sprintf("transport error %d: %s", e.Code, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
