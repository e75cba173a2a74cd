package types

// SuccessEnvelope wraps every successful document API response, so clients
// always unwrap `data` whether they asked for one document or a page.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code matches pkg/errors codes
// (validation, not_found, conflict, state_conflict, ...); Details carries
// field-level validation output when the code permits it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError under `error` for failed responses.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
