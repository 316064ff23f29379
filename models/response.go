package models

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TestResponse is returned by the liveness endpoint.
type TestResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
