package inference

import "fmt"

// GatewayError is the single failure kind for every outbound inference call:
// transport errors, non-2xx statuses, and responses missing the expected
// field all end up here. StatusCode is 0 when the HTTP exchange never
// completed.
type GatewayError struct {
	Op         string // "complete", "analyze", "ask", "transcribe"
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("inference %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inference %s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
