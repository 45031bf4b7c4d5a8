package response

import (
	"encoding/json"
	"net/http"
	"strings"

	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
)

// Resp is the envelope the backend uses for error bodies.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

// ParseHTTPError turns a non-2xx response into an *errors.HTTPError,
// keeping the server message as-is.
func ParseHTTPError(statusCode int, body []byte) *pkgErrors.HTTPError {
	var r Resp
	if err := json.Unmarshal(body, &r); err == nil {
		msg := r.Message
		if msg == "" {
			msg = r.Error
		}
		if msg != "" {
			code := r.ErrorCode
			if code == 0 {
				code = statusCode
			}
			return &pkgErrors.HTTPError{
				Code:       code,
				Message:    msg,
				StatusCode: statusCode,
			}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	return &pkgErrors.HTTPError{
		Code:       statusCode,
		Message:    msg,
		StatusCode: statusCode,
	}
}
