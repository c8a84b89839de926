package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Profile is the signed-in user's display identity, used to pre-fill the
// payment widget. The bearer token itself stays opaque: the storefront never
// inspects it, it only forwards it.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthClient struct {
	http *resty.Client
}

func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{http: newRestyClient(baseURL, timeout)}
}

// Profile resolves the bearer's name and email from the auth service.
func (c *AuthClient) Profile(ctx context.Context, token string) (*Profile, error) {
	var profile struct {
		User Profile `json:"user"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetResult(&profile).
		Get("/auth/me")
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &profile.User, nil
}
