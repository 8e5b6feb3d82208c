package kattis

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	fs := newFakeSite(t)
	c := fs.client(t)

	// the canonical username comes from landing-page link frequency, not
	// from the login email
	require.Equal(t, "alice", c.Username)
	require.NotNil(t, c.Homepage())
}

func TestLoginRejected(t *testing.T) {
	fs := newFakeSite(t)
	opts := fs.options()
	opts.Password = "wrong"

	_, err := New(context.Background(), opts)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, LoginRejected, authErr.Reason)
}

func TestLoginRedirectedOffSite(t *testing.T) {
	fs := newFakeSite(t)
	fs.postLogin = func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://elsewhere.example/welcome", http.StatusFound)
	}

	_, err := New(context.Background(), fs.options())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, LoginRejected, authErr.Reason)
}

func TestLoginAmbiguousToken(t *testing.T) {
	fs := newFakeSite(t)
	fs.loginForm = `<form>
		<input type="hidden" name="csrf_token" value="13337"/>
		<input type="hidden" name="other" value="42"/>
	</form>`

	_, err := New(context.Background(), fs.options())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, TokenAmbiguous, authErr.Reason)
}

func TestLoginUsernameNotFound(t *testing.T) {
	fs := newFakeSite(t)
	fs.landing = `<nav><a href="/problems/hello">hello</a></nav>`

	_, err := New(context.Background(), fs.options())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, UsernameNotFound, authErr.Reason)
}

func TestCanonicalUsernameTie(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<a href="/users/carol">one</a>
		<a href="/users/dave">two</a>
		<a href="/users/carol">three</a>
		<a href="/users/dave">four</a>
	`))
	require.NoError(t, err)

	// equal counts resolve to the first name seen
	require.Equal(t, "carol", canonicalUsername(doc))
}

func TestCanonicalUsernameIgnoresOtherLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<a href="/problems/hello">hello</a>
		<a href="/contests/123">contest</a>
	`))
	require.NoError(t, err)
	require.Equal(t, "", canonicalUsername(doc))
}
