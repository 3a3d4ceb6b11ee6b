// Package api is the typed client for the Bazario backend REST API.
//
// The client holds no session state of its own: it is constructed with a
// token source so every authenticated call picks up the current token at
// send time, and a logout or session clear is visible to in-flight callers
// immediately.
//
// Usage:
//
//	client := api.New(config.APIBaseURL(), session.Token)
//	page, err := client.Products(ctx, 1)
package api

import (
	"time"
)

// Client talks to one backend instance.
type Client struct {
	base   string
	tokens func() string
}

// New builds a client for the given base URL. tokens is called before each
// request; return "" to send unauthenticated requests.
func New(base string, tokens func() string) *Client {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{base: base, tokens: tokens}
}

// Base returns the configured backend base URL.
func (c *Client) Base() string { return c.base }

func (c *Client) token() string { return c.tokens() }

func (c *Client) url(path string) string { return c.base + path }

const requestTimeout = 10 * time.Second
