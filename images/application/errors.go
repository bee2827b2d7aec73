package application

import "net/http"

// RejectionError marks a client-input failure. Rejections are produced
// before any disk or store mutation and map directly to a 4xx response.
type RejectionError struct {
	Status  int
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(message string) *RejectionError {
	return &RejectionError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}
