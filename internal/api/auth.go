package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a bearer token. A 422 response surfaces
// as *ValidationError with per-field messages.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doPublicJSON(ctx, http.MethodPost, "/api/user/login", payload, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account. Registration does not log the user in; the
// caller follows up with Login.
func (c *Client) Register(ctx context.Context, name, email, password, passwordConfirmation string) error {
	payload := map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": passwordConfirmation,
	}
	return c.doPublicJSON(ctx, http.MethodPost, "/api/user/register", payload, nil)
}

// ResetPassword completes a password reset using the emailed token.
func (c *Client) ResetPassword(ctx context.Context, email, token, password, passwordConfirmation string) error {
	payload := map[string]string{
		"email":                 email,
		"token":                 token,
		"password":              password,
		"password_confirmation": passwordConfirmation,
	}
	return c.doPublicJSON(ctx, http.MethodPost, "/api/password/reset", payload, nil)
}
