package nas

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNoToken means no bearer token could be obtained for a scope by any
// path: not cached, not stored, and the grant returned an empty token.
var ErrNoToken = errors.New("no bearer token available")

// TokenAcquisitionError means the OAuth2 client-credentials grant was
// rejected by the token endpoint.
type TokenAcquisitionError struct {
	Scope  string
	Status int
}

func (e *TokenAcquisitionError) Error() string {
	return fmt.Sprintf("token request for scope %q failed with status %d", e.Scope, e.Status)
}

// APIError means a NAS call returned an unexpected status after the
// authorization retry policy was exhausted. Status carries the HTTP
// status for diagnostics; Detail carries the server's message when the
// response body had one.
type APIError struct {
	Op     string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Detail)
	}

	return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
}

// apiError builds an APIError, probing the response body for a server
// message. The NAS error body shape is loose ("message" or "error"),
// so this uses gjson rather than a typed decode.
func apiError(op string, status int, body []byte) *APIError {
	detail := gjson.GetBytes(body, "message").Str
	if detail == "" {
		detail = gjson.GetBytes(body, "error").Str
	}

	return &APIError{Op: op, Status: status, Detail: detail}
}
