package nus

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RussellDash332/autokattis/lib/testutil"
)

func testClient(t *testing.T, fs *testutil.FakeSite) *Client {
	t.Helper()
	c, err := NewWithOptions(context.Background(), fs.Options())
	require.NoError(t, err)
	return c
}

const offeringProblem = `
<div class="problembody"><p>Count to ten.</p></div>
<div class="metadata-grid">
	<div class="card"><span>CPU Time limit</span><span>1 second</span></div>
	<div class="card"><span>Memory limit</span><span>1024 MB</span></div>
</div>`

const offeringStatistics = `
<select>
	<option value="">All submissions</option>
	<option value="fastest-cpp" data-title="Fastest: C++">C++</option>
</select>
<section class="strip strip-item-plain" id="fastest-cpp">
	<table class="table2"><tbody>
		<tr><td>1</td><td><a href="/users/jackdoe">Jack</a></td><td>0.01</td><td>base</td><td>2025-01-02</td></tr>
	</tbody></table>
</section>`

// registerOffering serves one course-offering copy of a problem: the problem
// page, its submissions tab and its statistics page.
func registerOffering(fs *testutil.FakeSite, path, subID string) {
	fs.Handle("GET "+path, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tab") == "submissions" {
			fmt.Fprintf(w, `<table id="submissions"><tbody>
				<tr>
					<td>Accepted</td><td>0.02 s</td><td>Python 3</td><td>10/10</td>
					<td><a href="/submissions/%s">view</a></td>
				</tr>
			</tbody></table>`, subID)
			return
		}
		fmt.Fprint(w, offeringProblem)
	})
	fs.HandleHTML("GET "+path+"/statistics", offeringStatistics)
}

func TestProblemRedirectedToOffering(t *testing.T) {
	fs := testutil.NewFakeSite(t)
	const offering = "/courses/CS3233/CS3233_S2_AY2425/problems/test1"
	fs.Handle("GET /problems/test1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, offering, http.StatusFound)
	})
	registerOffering(fs, offering, "101")
	c := testClient(t, fs)

	res, err := c.Problem(context.Background(), false, "test1")
	require.NoError(t, err)

	details := res.Records()
	require.Len(t, details, 1)

	p := details[0]
	require.Equal(t, "test1", p.ID)
	require.Equal(t, "Count to ten.", p.Text)
	require.Equal(t, "1 second", p.CPU)
	require.Equal(t, "1024 MB", p.Memory)
	require.Equal(t, []string{fs.Server.URL + offering}, p.Offerings)

	require.Contains(t, p.Statistics, "C++")
	fastest := p.Statistics["C++"].Fastest
	require.NotNil(t, fastest)
	require.Equal(t, "Fastest: C++", fastest.Description)
	require.Len(t, fastest.Ranklist, 1)
	require.Equal(t, 0.01, *fastest.Ranklist[0].Runtime)

	require.Len(t, p.Submissions, 1)
	require.Equal(t, fs.Server.URL+"/submissions/101", p.Submissions[0].Link)
}

func TestProblemListedOfferings(t *testing.T) {
	fs := testutil.NewFakeSite(t)
	fs.HandleHTML("GET /problems/test2", `<table class="table2"><tbody>
		<tr><td><a href="/courses/CS2040/ay1/problems/test2">AY1</a></td></tr>
		<tr><td><a href="/courses/CS2040/ay2/problems/test2">AY2</a></td></tr>
	</tbody></table>`)
	registerOffering(fs, "/courses/CS2040/ay1/problems/test2", "201")
	registerOffering(fs, "/courses/CS2040/ay2/problems/test2", "202")
	c := testClient(t, fs)

	res, err := c.Problem(context.Background(), false, "test2")
	require.NoError(t, err)

	details := res.Records()
	require.Len(t, details, 1)

	p := details[0]
	require.Equal(t, []string{
		fs.Server.URL + "/courses/CS2040/ay1/problems/test2",
		fs.Server.URL + "/courses/CS2040/ay2/problems/test2",
	}, p.Offerings)

	// submissions come from every offering, statistics from the first only
	require.Len(t, p.Submissions, 2)
	require.Equal(t, fs.Server.URL+"/submissions/201", p.Submissions[0].Link)
	require.Equal(t, fs.Server.URL+"/submissions/202", p.Submissions[1].Link)
	require.Equal(t, 1, fs.RequestCount("/courses/CS2040/ay1/problems/test2/statistics"))
	require.Equal(t, 0, fs.RequestCount("/courses/CS2040/ay2/problems/test2/statistics"))
}

func TestProblemSkipsUnreachable(t *testing.T) {
	fs := testutil.NewFakeSite(t)
	// "orphan" resolves but belongs to no offering; "ghost" does not exist
	fs.HandleHTML("GET /problems/orphan", `<p>not part of any offering</p>`)
	c := testClient(t, fs)

	res, err := c.Problem(context.Background(), false, "ghost", "orphan")
	require.NoError(t, err)
	require.Equal(t, 0, res.Len())
}
