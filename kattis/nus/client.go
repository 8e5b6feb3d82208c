// Package nus is the client for the institutional site at nus.kattis.com,
// where problems live inside course offerings and assignments.
package nus

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/RussellDash332/autokattis/kattis"
)

const baseURL = "https://nus.kattis.com"

var tracer = otel.Tracer("autokattis.kattis.nus")

// Client is an authenticated session against the institutional site.
type Client struct {
	*kattis.Client
}

// New logs into the institutional site.
func New(ctx context.Context, username, password string) (*Client, error) {
	return NewWithOptions(ctx, kattis.Options{Username: username, Password: password})
}

// NewWithOptions logs in with explicit session options; an empty BaseURL
// targets the institutional site.
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
