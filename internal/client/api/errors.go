package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/senselib/f8client/internal/common"
	"github.com/tidwall/gjson"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// Error is a non-2xx backend response.
type Error struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case common.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

// newError consumes and closes resp.Body.
func newError(resp *http.Response) *Error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	e := &Error{StatusCode: resp.StatusCode, Body: body}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL.Redacted()
	}
	e.Message = extractMessage(body)
	return e
}

// extractMessage pulls a human readable message out of a backend error body.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		r := gjson.ParseBytes(body)
		if r.Type == gjson.String {
			return r.String()
		}
		for _, path := range []string{"message", "error", "detail", "title", "errors.0.message", "errors.0"} {
			if v := r.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
		return ""
	}
	s := strings.TrimSpace(string(body))
	if strings.HasPrefix(s, "<") {
		return ""
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// Message renders err as a single display line, following the backend's
// {message} convention when the error came from the backend.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			return "Your session has expired. Please log in again."
		}
		return http.StatusText(apiErr.StatusCode)
	}
	return err.Error()
}
