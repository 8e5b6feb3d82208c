// Package testutil serves a fake scraping target for tests: a local site
// with the login flow and whatever pages a test registers.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/retry"
	"github.com/RussellDash332/autokattis/lib/telemetry"
)

const (
	// User and Password are the credentials the fake login accepts.
	User     = "alice@example.com"
	Password = "hunter2"
	// Username is the canonical username the fake landing page yields.
	Username = "alice"
)

// FakeSite is a local stand-in for a Kattis origin. It handles the login
// flow out of the box; tests register the pages they need on top.
type FakeSite struct {
	Server *httptest.Server

	// Landing is the body served at "/". Tests that read homepage boxes
	// (suggestions, nearby ranks, courses) replace it before logging in;
	// it must keep linking /users/{Username} so login still resolves the
	// canonical username.
	Landing string

	mux *http.ServeMux

	mu       sync.Mutex
	requests []string
}

// NewFakeSite starts a fake site and tears it down with the test.
func NewFakeSite(t testing.TB) *FakeSite {
	t.Helper()
	t.Cleanup(telemetry.SetupForTesting(t, "autokattis.test"))

	fs := &FakeSite{
		mux:     http.NewServeMux(),
		Landing: fmt.Sprintf(`<nav><a href="/users/%s">profile</a><a href="/users/%s">me</a></nav>`, Username, Username),
	}

	fs.mux.HandleFunc("GET /login/email", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<form><input type="hidden" name="csrf_token" value="13337"/></form>`)
	})
	fs.mux.HandleFunc("POST /login/email", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("user") == User && r.FormValue("password") == Password && r.FormValue("csrf_token") == "13337" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login/email?problem=rejected", http.StatusFound)
	})
	fs.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fs.Landing)
	})

	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.requests = append(fs.requests, r.URL.RequestURI())
		fs.mu.Unlock()
		fs.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Server.Close)
	return fs
}

// Handle registers a page. Patterns follow http.ServeMux, e.g.
// "GET /problems/hello".
func (fs *FakeSite) Handle(pattern string, h http.HandlerFunc) {
	fs.mux.HandleFunc(pattern, h)
}

// HandleHTML registers a page serving a fixed body.
func (fs *FakeSite) HandleHTML(pattern, body string) {
	fs.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})
}

// RequestCount counts received requests whose URI contains the fragment.
func (fs *FakeSite) RequestCount(fragment string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n := 0
	for _, uri := range fs.requests {
		if strings.Contains(uri, fragment) {
			n++
		}
	}
	return n
}

// Options returns session options against the fake site with a small retry
// budget and no id database.
func (fs *FakeSite) Options() kattis.Options {
	return kattis.Options{
		BaseURL:      fs.Server.URL,
		Username:     User,
		Password:     Password,
		Workers:      2,
		Retry:        retry.Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
		SkipDatabase: true,
	}
}
