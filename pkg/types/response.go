package types

// SuccessEnvelope is the body of every 2xx API response.
type SuccessEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}
