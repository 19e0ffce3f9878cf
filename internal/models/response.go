package models

// ErrorResponse - стандартное тело ошибки HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
