// Package client holds the HTTP clients for the backend collaborators the
// storefront orchestrates: catalog, auth profile, payments and orders. The
// storefront owns none of these protocols; request and response shapes
// follow the backend API.
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is a collaborator rejection. Message comes from the response body
// and is surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
}

// apiError converts a non-success response into an APIError, falling back to
// a generic message when the body carries no usable one.
func apiError(resp *resty.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Message == "" {
		return &APIError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("request failed with status %d", resp.StatusCode()),
		}
	}
	return &APIError{Status: resp.StatusCode(), Message: body.Message}
}

func bearer(token string) string { return "Bearer " + token }
