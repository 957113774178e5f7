// Package types holds the wire envelopes shared by every HTTP response.
package types

// SuccessEnvelope wraps every 2xx body under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries the machine-readable code alongside the human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
