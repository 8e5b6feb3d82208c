package kattis

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// registerUserPages serves the user profile: the language select for session
// init, and a paginated submission history per language filter.
func registerUserPages(fs *fakeSite) {
	pages := map[string][]string{
		"": {
			submissionsPage(
				submissionRow("1001", "hello", "Hello World!", "2024-01-01 10:00", "Accepted", "0.10 s", "C++", "5/5"),
				submissionRow("1003", "carrots", "Carrots", "2024-01-02 11:00", "Accepted (100)", "1.00 s", "Python 3", "42/42"),
			),
			submissionsPage(
				submissionRow("1002", "hello", "NUS Competitive Programming / Hello World!", "2024-01-03 09:00", "Accepted", "0.05 s", "C++", "5/5"),
				submissionRow("1004", "different", "A Different Problem", "2024-01-04 08:00", "Accepted", "> 2.00 s", "Go", "3/3"),
			),
		},
		"cpp": {
			submissionsPage(
				submissionRow("1001", "hello", "Hello World!", "2024-01-01 10:00", "Accepted", "0.10 s", "C++", "5/5"),
				submissionRow("1002", "hello", "Hello World!", "2024-01-03 09:00", "Accepted", "0.05 s", "C++", "5/5"),
			),
		},
	}

	fs.handle("GET /users/alice", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("tab") != "submissions" {
			fmt.Fprint(w, `<select name="language">
				<option value="">All languages</option>
				<option value="cpp">C++</option>
				<option value="go">Go</option>
			</select>`)
			return
		}
		ps := pages[q.Get("language")]
		page, _ := strconv.Atoi(q.Get("page"))
		if page < len(ps) {
			fmt.Fprint(w, ps[page])
		}
	})
	fs.handle("GET /ranklist/countries", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script id="country_select_data" type="application/json">[]</script>`)
	})
	fs.handle("GET /ranklist/affiliations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script id="affiliation_select_data" type="application/json">[]</script>`)
	})
}

func statsClient(t *testing.T, fs *fakeSite) *Client {
	t.Helper()
	opts := fs.options()
	opts.SkipDatabase = false
	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	return c
}

func TestStatsBestPerProblem(t *testing.T) {
	fs := newFakeSite(t)
	registerUserPages(fs)
	c := statsClient(t, fs)

	res, err := c.Stats(context.Background())
	require.NoError(t, err)

	subs := res.Records()
	require.Len(t, subs, 3)

	// sorted by problem id
	require.Equal(t, "carrots", subs[0].ID)
	require.Equal(t, "different", subs[1].ID)
	require.Equal(t, "hello", subs[2].ID)

	// the faster of the two hello submissions is retained, and the contest
	// prefix is stripped from its name
	require.Equal(t, "0.05", subs[2].Runtime)
	require.Equal(t, "Hello World!", subs[2].Name)
	require.Equal(t, fs.srv.URL+"/submissions/1002", subs[2].Link)

	// a partial-scoring verdict carries its score
	require.NotNil(t, subs[0].Score)
	require.Equal(t, 100.0, *subs[0].Score)
	require.Equal(t, 42, subs[0].TestCasePassed)

	// exceeded runtimes stay textual
	require.Equal(t, "> 2.00", subs[1].Runtime)
}

func TestStatsMemoized(t *testing.T) {
	fs := newFakeSite(t)
	registerUserPages(fs)
	c := statsClient(t, fs)

	_, err := c.Stats(context.Background())
	require.NoError(t, err)
	fetched := fs.requestCount("status=AC")
	require.Greater(t, fetched, 0)

	_, err = c.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, fetched, fs.requestCount("status=AC"))

	c.ResetCache()
	_, err = c.Stats(context.Background())
	require.NoError(t, err)
	require.Greater(t, fs.requestCount("status=AC"), fetched)
}

func TestStatsLanguageFilter(t *testing.T) {
	fs := newFakeSite(t)
	registerUserPages(fs)
	c := statsClient(t, fs)

	// display name resolves to the site's filter code
	res, err := c.Stats(context.Background(), "C++")
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	require.Equal(t, "hello", res.Records()[0].ID)
	require.Equal(t, "0.05", res.Records()[0].Runtime)
}

func TestStatsUnknownLanguage(t *testing.T) {
	fs := newFakeSite(t)
	registerUserPages(fs)
	c := statsClient(t, fs)

	// a single unknown language is fatal
	_, err := c.Stats(context.Background(), "Brainfuck")
	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "language", invalid.Kind)

	// in a batch it is skipped and the rest is returned
	res, err := c.Stats(context.Background(), "C++", "Brainfuck")
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
}

func TestSolvedProblems(t *testing.T) {
	fs := newFakeSite(t)
	registerUserPages(fs)
	c := statsClient(t, fs)

	res, err := c.SolvedProblems(context.Background())
	require.NoError(t, err)

	problems := res.Records()
	require.Len(t, problems, 3)
	require.Equal(t, "carrots", problems[0].ID)
	require.Equal(t, "different", problems[1].ID)
	require.Equal(t, "hello", problems[2].ID)
	require.Equal(t, fs.srv.URL+"/problems/hello", problems[2].Link)
}

func TestProblemDropdown(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("GET /users/alice", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<select name="problem">
			<option value="">All problems</option>
			<option value="hello">Hello World!</option>
			<option value="carrots">Carrots</option>
			<option value="">---</option>
			<option value="ignored">After the terminator</option>
		</select>`)
	})
	c := fs.client(t)

	res, err := c.ProblemDropdown(context.Background())
	require.NoError(t, err)

	problems := res.Records()
	require.Len(t, problems, 2)
	require.Equal(t, "carrots", problems[0].ID)
	require.Equal(t, "hello", problems[1].ID)
	require.Equal(t, "Hello World!", problems[1].Name)
}