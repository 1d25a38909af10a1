package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrNotFound = errors.New("note not found")

// StatusError is returned for any non-200 response. Message is the raw
// response body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, msg)
}

// Is lets a 404 match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == 404
}

// Detail returns the text worth showing to a user: the server message
// when it sent one, the error text otherwise.
func Detail(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		if msg := messageOf(se.Message); msg != "" {
			return msg
		}
	}
	return err.Error()
}

func messageOf(body string) string {
	body = strings.TrimSpace(body)
	if gjson.Valid(body) {
		for _, field := range []string{"message", "error", "status"} {
			if v := gjson.Get(body, field); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	return body
}
