package kattis

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// Stats collects the user's accepted submissions, reduced to the single best
// record per problem. With no languages it scans all of them; with languages
// it runs one scan per language and concatenates. Each argument may be a
// language name or code; a single unknown language fails the call, while an
// unknown entry of a larger batch is skipped with a warning. Results are
// memoized per normalized language set.
func (c *Client) Stats(ctx context.Context, languages ...string) (Result[Submission], error) {
	ctx, span := tracer.Start(ctx, "client:Stats")
	defer span.End()

	norm := NormalizeSet(languages)
	if len(norm) == 0 {
		norm = []string{""}
	}
	return Memoize(c, CacheKey("stats", norm...), func() (Result[Submission], error) {
		var out []Submission
		for _, lang := range norm {
			code := ""
			if lang != "" {
				var ok bool
				code, ok = c.db.LanguageCode(lang)
				if !ok {
					err := &InvalidArgumentError{Kind: "language", Value: lang}
					if len(norm) == 1 {
						span.SetStatus(codes.Error, err.Error())
						return Result[Submission]{}, err
					}
					slog.WarnContext(ctx, "skipping unknown language", "language", lang)
					continue
				}
			}
			subs, err := c.scanAccepted(ctx, code)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return Result[Submission]{}, err
			}
			out = append(out, subs...)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return NewResult(out), nil
	})
}

// scanAccepted pages through the user's accepted submissions for one language
// code ("" for all) and keeps the best record per problem.
func (c *Client) scanAccepted(ctx context.Context, code string) ([]Submission, error) {
	best := newReduceBest()
	q := PageQuery{
		Path: "/users/" + c.Username,
		Params: url.Values{
			"tab":      {"submissions"},
			"status":   {"AC"},
			"language": {code},
		},
	}
	err := c.ForEachPage(ctx, q, func(doc *goquery.Document) int {
		count := 0
		htmlutil.TableRows(doc.Find(submissionsTable)).Each(func(_ int, row *goquery.Selection) {
			sub, ok := parseSubmissionRow(c, row)
			if !ok {
				return
			}
			count++
			best.Add(sub)
		})
		return count
	})
	if err != nil {
		return nil, err
	}
	return best.All(), nil
}

// SolvedProblems pages through the accepted-submissions tab and returns the
// distinct problems it mentions, sorted by id.
func (c *Client) SolvedProblems(ctx context.Context) (Result[ProblemSummary], error) {
	ctx, span := tracer.Start(ctx, "client:SolvedProblems")
	defer span.End()

	return Memoize(c, CacheKey("solved_problems"), func() (Result[ProblemSummary], error) {
		seen := map[string]bool{}
		var out []ProblemSummary
		q := PageQuery{
			Path: "/users/" + c.Username,
			Params: url.Values{
				"tab":    {"submissions"},
				"status": {"AC"},
			},
		}
		err := c.ForEachPage(ctx, q, func(doc *goquery.Document) int {
			count := 0
			htmlutil.TableRows(doc.Find(submissionsTable)).Each(func(_ int, row *goquery.Selection) {
				cells := htmlutil.Cells(row)
				if !htmlutil.HasContent(cells) {
					return
				}
				href, ok := submissionsLayout.Cell(cells, RoleProblem).Find("a").Last().Attr("href")
				if !ok {
					return
				}
				count++
				id := textutil.LastPath(href)
				if seen[id] {
					return
				}
				seen[id] = true
				out = append(out, ProblemSummary{
					ID:   id,
					Name: textutil.LastPath(submissionsLayout.Text(cells, RoleProblem)),
					Link: c.Abs(href),
				})
			})
			return count
		})
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Result[ProblemSummary]{}, err
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return NewResult(out), nil
	})
}

// ProblemDropdown reads the problem-filter dropdown on the user page, a
// cheaper source of the solved-problem set than paging through submissions.
// The first entry is the "all problems" placeholder and an empty value marks
// the end of the problem options.
func (c *Client) ProblemDropdown(ctx context.Context) (Result[ProblemSummary], error) {
	ctx, span := tracer.Start(ctx, "client:ProblemDropdown")
	defer span.End()

	return Memoize(c, CacheKey("problem_dropdown"), func() (Result[ProblemSummary], error) {
		doc, err := c.Doc(ctx, "/users/"+c.Username, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Result[ProblemSummary]{}, err
		}

		seen := map[string]bool{}
		var out []ProblemSummary
		doc.Find("option").EachWithBreak(func(i int, opt *goquery.Selection) bool {
			if i == 0 {
				return true
			}
			id, _ := opt.Attr("value")
			if id == "" {
				return false
			}
			if seen[id] {
				return true
			}
			seen[id] = true
			out = append(out, ProblemSummary{
				ID:   id,
				Name: textutil.CollapseSpaces(opt.Text()),
				Link: c.Abs("/problems/" + id),
			})
			return true
		})
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return NewResult(out), nil
	})
}
