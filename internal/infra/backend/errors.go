package backend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/autobooks/dashboard-bfa-go/internal/domain"
)

// errorEnvelope covers the shapes the backend uses for failures:
// {"message": "..."}, {"error": "..."} and {"errors": {"field": ["msg"]}}.
type errorEnvelope struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// parseError turns a non-2xx response into a domain error.
func parseError(status int, body []byte) error {
	var env errorEnvelope
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &env) == nil {
		if field, msg, ok := firstFieldError(env.Errors); ok && status < 500 {
			return &domain.ErrValidation{Field: field, Message: msg}
		}
		if env.Message != "" {
			return &domain.ErrBackend{Status: status, Message: env.Message}
		}
		var s string
		if json.Unmarshal(env.Error, &s) == nil && s != "" {
			return &domain.ErrBackend{Status: status, Message: s}
		}
	}
	if status == http.StatusUnauthorized {
		return &domain.ErrUnauthorized{}
	}
	return &domain.ErrBackend{Status: status}
}

// firstFieldError returns the first field (in document order) of a
// {"field": ["msg", ...]} object with its first message.
func firstFieldError(raw json.RawMessage) (field, msg string, ok bool) {
	if len(raw) == 0 {
		return "", "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", "", false
	}
	if d, isDelim := tok.(json.Delim); !isDelim || d != '{' {
		return "", "", false
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", "", false
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return "", "", false
		}
		var msgs []string
		if json.Unmarshal(value, &msgs) == nil {
			for _, m := range msgs {
				if strings.TrimSpace(m) != "" {
					return key, m, true
				}
			}
			continue
		}
		var single string
		if json.Unmarshal(value, &single) == nil && single != "" {
			return key, single, true
		}
	}
	return "", "", false
}
