package nus

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
)

// Problems lists the problems the site knows about: the solved ones from the
// accepted-submission history, or every visible problem from the user page's
// dropdown.
func (c *Client) Problems(ctx context.Context, solvedOnly bool) (kattis.Result[kattis.ProblemSummary], error) {
	if solvedOnly {
		return c.SolvedProblems(ctx)
	}
	return c.ProblemDropdown(ctx)
}

// Problem fetches full details for one or more problem ids. On this site a
// problem is only reachable through a course offering: a bare problem path
// either redirects to the offering's copy or lists every offering carrying
// the problem. All offering URLs are recorded and the first one serves the
// statistics; submissions are collected across all of them. Unknown or
// inaccessible ids are skipped with a warning.
func (c *Client) Problem(ctx context.Context, downloadFiles bool, ids ...string) (kattis.Result[kattis.ProblemDetail], error) {
	ctx, span := tracer.Start(ctx, "nus:Problem")
	defer span.End()

	norm := kattis.NormalizeSet(ids)
	key := kattis.CacheKey("problem", append([]string{strconv.FormatBool(downloadFiles)}, norm...)...)
	return kattis.Memoize(c.Client, key, func() (kattis.Result[kattis.ProblemDetail], error) {
		var out []kattis.ProblemDetail
		for _, id := range norm {
			page, err := c.FetchProblem(ctx, id)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return kattis.Result[kattis.ProblemDetail]{}, err
			}
			if !page.OK {
				slog.WarnContext(ctx, "ignoring unknown problem", "id", id)
				continue
			}

			doc := page.Doc
			offerings := []string{page.URL}
			if page.URL == c.Abs("/problems/"+id) {
				// not redirected: the page lists the offerings that carry
				// this problem instead of the problem itself
				offerings = c.offeringLinks(doc)
				if len(offerings) == 0 {
					slog.WarnContext(ctx, "problem not part of any offering", "id", id)
					continue
				}
				doc, err = c.Doc(ctx, offerings[0], nil)
				if err != nil {
					span.SetStatus(codes.Error, err.Error())
					return kattis.Result[kattis.ProblemDetail]{}, err
				}
			}

			meta, err := c.ProblemMetadata(ctx, doc, downloadFiles)
			if err != nil {
				return kattis.Result[kattis.ProblemDetail]{}, err
			}

			// offerings share one leaderboard, so any of them serves the
			// statistics
			stats, err := c.ProblemStatistics(ctx, offerings[0])
			if err != nil {
				return kattis.Result[kattis.ProblemDetail]{}, err
			}

			var subs []kattis.ProblemSubmission
			for _, offering := range offerings {
				s, err := c.OwnSubmissions(ctx, offering)
				if err != nil {
					return kattis.Result[kattis.ProblemDetail]{}, err
				}
				subs = append(subs, s...)
			}

			out = append(out, kattis.ProblemDetail{
				ID:          id,
				Text:        kattis.ProblemBody(doc),
				CPU:         meta.CPU,
				Memory:      meta.Memory,
				Difficulty:  meta.Difficulty,
				Category:    meta.Category,
				Author:      meta.Author,
				Source:      meta.Source,
				Files:       meta.Files,
				Statistics:  stats,
				Submissions: subs,
				Offerings:   offerings,
			})
		}
		return kattis.NewResult(out), nil
	})
}

// offeringLinks collects the offering URLs from the table a bare problem
// path renders when the problem belongs to several offerings.
func (c *Client) offeringLinks(doc *goquery.Document) []string {
	var links []string
	htmlutil.TableRows(doc.Find("table.table2").First()).Each(func(_ int, row *goquery.Selection) {
		htmlutil.Cells(row).Each(func(_ int, cell *goquery.Selection) {
			if href, ok := cell.Find("a").First().Attr("href"); ok {
				links = append(links, c.Abs(href))
			}
		})
	})
	return links
}
