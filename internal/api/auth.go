package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abdullahilyas48/ConvoHub/internal/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the token bundle issued on login and signup.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Username     string `json:"username"`
}

// Login exchanges username/password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/login/", LoginRequest{Username: username, Password: password}, &creds)
	if err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access_token", ErrDecode)
	}
	return &creds, nil
}

// Signup registers a new account; the server logs the account in and
// returns a token bundle straight away.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*Credentials, error) {
	var creds Credentials
	err := c.do(ctx, http.MethodPost, "/auth/signup/", SignupRequest{Username: username, Email: email, Password: password}, &creds)
	if err != nil {
		return nil, err
	}
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: signup response has no access_token", ErrDecode)
	}
	return &creds, nil
}

// Logout invalidates the token server-side. Local state cleanup is the
// caller's job.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

// Profile fetches the viewer's own account.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/profile/", nil, &p); err != nil {
		return nil, err
	}
	if p.Username == "" {
		return nil, fmt.Errorf("%w: profile response has no username", ErrDecode)
	}
	return &p, nil
}

type UpdateProfileRequest struct {
	Bio string `json:"bio"`
}

// UpdateProfile replaces the viewer's bio.
func (c *Client) UpdateProfile(ctx context.Context, bio string) (*models.Profile, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var p models.Profile
	if err := c.do(ctx, http.MethodPut, "/profile/", UpdateProfileRequest{Bio: bio}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
