package kattis

import "fmt"

// AuthReason classifies why establishing a session failed.
type AuthReason int

const (
	// TokenAmbiguous means the login form held zero or several candidate
	// anti-forgery tokens, so the protocol assumption no longer holds.
	TokenAmbiguous AuthReason = iota
	// LoginRejected means the login POST bounced back to a login page.
	LoginRejected
	// UsernameNotFound means no /users/{name} link appeared on the landing
	// page, so the canonical username could not be derived.
	UsernameNotFound
)

func (r AuthReason) String() string {
	switch r {
	case TokenAmbiguous:
		return "token ambiguous"
	case LoginRejected:
		return "login rejected"
	case UsernameNotFound:
		return "username not found"
	}
	return "unknown"
}

// AuthError is fatal: the credentials or the session are assumed invalid and
// the request is never retried.
type AuthError struct {
	Reason AuthReason
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("auth: %s", e.Reason)
	}
	return fmt.Sprintf("auth: %s: %s", e.Reason, e.Detail)
}

// ResolveError reports an input that could not be mapped to a known code.
type ResolveError struct {
	Input string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q to a known code", e.Input)
}

// InvalidArgumentError reports a single-item argument outside the known set,
// e.g. a language that the site does not list.
type InvalidArgumentError struct {
	Kind  string
	Value string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}
