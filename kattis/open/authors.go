package open

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

var authorsLayout = kattis.Layout{
	kattis.RoleName:       0,
	kattis.RoleProblems:   1,
	kattis.RoleDifficulty: 2,
}

// ProblemAuthors lists every problem author with their problem count and
// average difficulty.
func (c *Client) ProblemAuthors(ctx context.Context) (kattis.Result[AuthorStat], error) {
	ctx, span := tracer.Start(ctx, "open:ProblemAuthors")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("problem_authors"), func() (kattis.Result[AuthorStat], error) {
		return c.authorIndex(ctx, span, "/problem-authors")
	})
}

// ProblemSources lists every problem source, in the same shape as
// ProblemAuthors.
func (c *Client) ProblemSources(ctx context.Context) (kattis.Result[AuthorStat], error) {
	ctx, span := tracer.Start(ctx, "open:ProblemSources")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("problem_sources"), func() (kattis.Result[AuthorStat], error) {
		return c.authorIndex(ctx, span, "/problem-sources")
	})
}

func (c *Client) authorIndex(ctx context.Context, span trace.Span, path string) (kattis.Result[AuthorStat], error) {
	doc, err := c.Doc(ctx, path, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return kattis.Result[AuthorStat]{}, err
	}

	var out []AuthorStat
	htmlutil.TableRows(doc.Find("table.table2").First()).Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.Cells(row)
		if !htmlutil.HasContent(cells) {
			return
		}
		href, ok := authorsLayout.Href(cells, kattis.RoleName)
		if !ok {
			return
		}
		problems, _ := strconv.Atoi(authorsLayout.Text(cells, kattis.RoleProblems))
		difficulty, category := textutil.SplitDifficulty(
			authorsLayout.Text(cells, kattis.RoleDifficulty), textutil.DifficultyMax)
		out = append(out, AuthorStat{
			Name:          authorsLayout.Text(cells, kattis.RoleName),
			Problems:      problems,
			AvgDifficulty: difficulty,
			AvgCategory:   category,
			Link:          c.Abs(href),
		})
	})
	return kattis.NewResult(out), nil
}
