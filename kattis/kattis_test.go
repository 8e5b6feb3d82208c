package kattis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RussellDash332/autokattis/lib/retry"
	"github.com/RussellDash332/autokattis/lib/telemetry"
)

const (
	testUser     = "alice@example.com"
	testPassword = "hunter2"
)

func setupTest(t *testing.T) {
	t.Helper()
	t.Cleanup(telemetry.SetupForTesting(t, "autokattis.test"))
}

// fakeSite serves just enough of the site to log in and scrape: a login form
// with one CSRF token, a landing page naming the canonical user, and whatever
// endpoints a test registers on top.
type fakeSite struct {
	mux *http.ServeMux
	srv *httptest.Server

	// loginForm, landing and postLogin are swappable so auth edge cases
	// can be exercised.
	loginForm string
	landing   string
	postLogin http.HandlerFunc

	mu       sync.Mutex
	requests []string
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	setupTest(t)

	fs := &fakeSite{
		mux:       http.NewServeMux(),
		loginForm: `<form><input type="hidden" name="csrf_token" value="13337"/></form>`,
		landing: `<nav>
			<a href="/users/alice">profile</a>
			<a href="/users/alice/settings">settings</a>
			<a href="/users/bob">bob</a>
		</nav>`,
	}

	fs.mux.HandleFunc("GET /login/email", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fs.loginForm)
	})
	fs.mux.HandleFunc("POST /login/email", func(w http.ResponseWriter, r *http.Request) {
		if fs.postLogin != nil {
			fs.postLogin(w, r)
			return
		}
		if r.FormValue("user") == testUser && r.FormValue("password") == testPassword && r.FormValue("csrf_token") == "13337" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login/email?problem=rejected", http.StatusFound)
	})
	fs.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fs.landing)
	})

	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.requests = append(fs.requests, r.URL.RequestURI())
		fs.mu.Unlock()
		fs.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeSite) handle(pattern string, h http.HandlerFunc) {
	fs.mux.HandleFunc(pattern, h)
}

// requestCount counts the requests whose URI contains the given fragment.
func (fs *fakeSite) requestCount(fragment string) int {
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

func (fs *fakeSite) options() Options {
	return Options{
		BaseURL:      fs.srv.URL,
		Username:     testUser,
		Password:     testPassword,
		Workers:      2,
		Retry:        retry.Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond},
		SkipDatabase: true,
	}
}

func (fs *fakeSite) client(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), fs.options())
	require.NoError(t, err)
	return c
}

// submissionRow renders one row of the per-user submissions grid in the
// site's column order: plagiarism, timestamp, group, problem, status,
// runtime, language, test cases, details.
func submissionRow(subID, problemID, name, timestamp, status, runtime, lang, testcases string) string {
	return fmt.Sprintf(`<tr>
		<td></td>
		<td>%s</td>
		<td></td>
		<td><a href="/problems/%s">%s</a></td>
		<td>%s</td>
		<td>%s</td>
		<td>%s</td>
		<td>%s</td>
		<td><a href="/submissions/%s">details</a></td>
	</tr>`, timestamp, problemID, name, status, runtime, lang, testcases, subID)
}

func submissionsPage(rows ...string) string {
	return `<table class="table2 report_grid-problems_table double-rows"><tbody>` +
		strings.Join(rows, "\n") + `</tbody></table>`
}
