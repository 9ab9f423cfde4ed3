package response

import "net/http"

// Response is the envelope every endpoint answers with
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps an error message. An empty message is replaced with the
// standard status text so clients always get something to show.
func Error(statusCode int, err string) Response {
	if err == "" {
		err = http.StatusText(statusCode)
	}
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
