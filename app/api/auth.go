package api

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/httpclient"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	resp, err := httpclient.Post(c.url("/auth/login")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Body(map[string]string{"username": username, "password": password}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: login: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: login: %w", err)
	}

	var out models.AuthResult
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: login: %w", err)
	}
	return &out, nil
}

// Register creates a new account. The backend emails a one-time code; the
// account stays inactive until VerifyOTP succeeds.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	resp, err := httpclient.Post(c.url("/auth/register")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Body(map[string]string{"username": username, "email": email, "password": password}).
		Send()
	if err != nil {
		return fmt.Errorf("api: register: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: register: %w", err)
	}
	return nil
}

// VerifyOTP confirms the emailed one-time code and returns the first session.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*models.AuthResult, error) {
	resp, err := httpclient.Post(c.url("/auth/verify-otp")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Body(map[string]string{"email": email, "otp": code}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("api: verify otp: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return nil, fmt.Errorf("api: verify otp: %w", err)
	}

	var out models.AuthResult
	if err := resp.JSON(&out); err != nil {
		return nil, fmt.Errorf("api: verify otp: %w", err)
	}
	return &out, nil
}

// ResendOTP asks the backend to send a fresh one-time code.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	resp, err := httpclient.Post(c.url("/auth/resend-otp")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Body(map[string]string{"email": email}).
		Send()
	if err != nil {
		return fmt.Errorf("api: resend otp: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: resend otp: %w", err)
	}
	return nil
}

// Logout revokes the current token on the backend. A 401 here is treated as
// success: the token is already dead, which is what logout wants.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := httpclient.Post(c.url("/auth/logout")).
		WithContext(ctx).
		Timeout(requestTimeout).
		Bearer(c.token()).
		Send()
	if err != nil {
		return fmt.Errorf("api: logout: %w", err)
	}
	if resp.Unauthorized() {
		return nil
	}
	if err := resp.Throw(); err != nil {
		return fmt.Errorf("api: logout: %w", err)
	}
	return nil
}
