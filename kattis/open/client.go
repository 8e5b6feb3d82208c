// Package open is the client for the public site at open.kattis.com: the
// full problem archive, achievements, suggestions and the public ranklists.
package open

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/RussellDash332/autokattis/kattis"
)

const baseURL = "https://open.kattis.com"

var tracer = otel.Tracer("autokattis.kattis.open")

// Client is an authenticated session against the public site.
type Client struct {
	*kattis.Client
}

// New logs into the public site.
func New(ctx context.Context, username, password string) (*Client, error) {
	return NewWithOptions(ctx, kattis.Options{Username: username, Password: password})
}

// NewWithOptions logs in with explicit session options; an empty BaseURL
// targets the public site.
func NewWithOptions(ctx context.Context, opts kattis.Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = baseURL
	}
	c, err := kattis.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{Client: c}, nil
}
