package kattis

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// submissionsLayout maps the per-user submissions table. Column 0 is the
// plagiarism flag and column 2 the contest group, neither of which we carry.
var submissionsLayout = Layout{
	RoleTimestamp: 1,
	RoleProblem:   3,
	RoleStatus:    4,
	RoleRuntime:   5,
	RoleLanguage:  6,
	RoleTestcases: 7,
	RoleDetails:   8,
}

// submissionsTable is the grid Kattis renders submission history into, both
// on the user page and under the submissions tab.
const submissionsTable = "table.table2.report_grid-problems_table.double-rows"

func parseTestcases(text string) (passed, full int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(text), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	passed, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	full, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return passed, full, true
}

// trimRuntimeUnit drops the trailing unit from a runtime cell, so
// "0.11 s" becomes "0.11" and "> 45.00 s" becomes "> 45.00".
func trimRuntimeUnit(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return strings.TrimSpace(text)
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

// parseSubmissionRow extracts one submission from a row of the per-user
// submissions grid. Rows without content, without a problem link, or with an
// unparsable test-case cell are reported as absent rather than failing the
// whole page.
func parseSubmissionRow(c *Client, row *goquery.Selection) (Submission, bool) {
	cells := htmlutil.Cells(row)
	if !htmlutil.HasContent(cells) {
		return Submission{}, false
	}

	href, ok := submissionsLayout.Cell(cells, RoleProblem).Find("a").Last().Attr("href")
	if !ok {
		return Submission{}, false
	}
	passed, full, ok := parseTestcases(submissionsLayout.Text(cells, RoleTestcases))
	if !ok {
		return Submission{}, false
	}

	sub := Submission{
		ID:             textutil.LastPath(href),
		Name:           textutil.LastPath(submissionsLayout.Text(cells, RoleProblem)),
		Timestamp:      textutil.CollapseSpaces(submissionsLayout.Text(cells, RoleTimestamp)),
		Runtime:        trimRuntimeUnit(submissionsLayout.Text(cells, RoleRuntime)),
		Language:       submissionsLayout.Text(cells, RoleLanguage),
		TestCasePassed: passed,
		TestCaseFull:   full,
	}

	// Partial-scoring verdicts carry the score inside the status text,
	// e.g. "Accepted (100)".
	if runs := textutil.NumericRuns(submissionsLayout.Text(cells, RoleStatus)); len(runs) > 0 {
		if v, err := strconv.ParseFloat(runs[0], 64); err == nil {
			sub.Score = &v
		}
	}

	if detail, ok := submissionsLayout.Href(cells, RoleDetails); ok {
		sub.Link = c.Abs(detail)
	}
	return sub, true
}
