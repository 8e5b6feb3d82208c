package open

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// ProblemFilter selects which parts of the archive Problems lists, by the
// user's progress on each problem.
type ProblemFilter struct {
	Solved  bool
	Partial bool
	Tried   bool
	Untried bool
}

// DefaultProblemFilter lists fully and partially solved problems.
func DefaultProblemFilter() ProblemFilter {
	return ProblemFilter{Solved: true, Partial: true}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// problemsLayout maps the /problems archive table. Column 1 is the per-user
// status marker and column 6 the acceptance ratio, both derivable from the
// carried columns.
var problemsLayout = kattis.Layout{
	kattis.RoleName:       0,
	kattis.RoleFastest:    2,
	kattis.RoleShortest:   3,
	kattis.RoleTotal:      4,
	kattis.RoleAcc:        5,
	kattis.RoleDifficulty: 7,
}

// Problems lists the problem archive with full per-problem details, sorted
// by id. The archive starts counting pages at 1.
func (c *Client) Problems(ctx context.Context, filter ProblemFilter) (kattis.Result[Problem], error) {
	ctx, span := tracer.Start(ctx, "open:Problems")
	defer span.End()

	key := kattis.CacheKey("problems",
		onOff(filter.Solved), onOff(filter.Partial), onOff(filter.Tried), onOff(filter.Untried))
	return kattis.Memoize(c.Client, key, func() (kattis.Result[Problem], error) {
		var out []Problem
		q := kattis.PageQuery{
			Path: "/problems",
			Params: url.Values{
				"f_solved":        {onOff(filter.Solved)},
				"f_partial-score": {onOff(filter.Partial)},
				"f_tried":         {onOff(filter.Tried)},
				"f_untried":       {onOff(filter.Untried)},
			},
			StartPage: 1,
		}
		err := c.ForEachPage(ctx, q, func(doc *goquery.Document) int {
			count := 0
			table := doc.Find("section.strip.strip-item-plain table.table2")
			htmlutil.TableRows(table).Each(func(_ int, row *goquery.Selection) {
				cells := htmlutil.Cells(row)
				if !htmlutil.HasContent(cells) {
					return
				}
				href, ok := problemsLayout.Href(cells, kattis.RoleName)
				if !ok {
					return
				}
				count++

				difficulty, category := textutil.SplitDifficulty(
					problemsLayout.Text(cells, kattis.RoleDifficulty), textutil.DifficultyMax)
				total, _ := strconv.Atoi(problemsLayout.Text(cells, kattis.RoleTotal))
				acc, _ := strconv.Atoi(problemsLayout.Text(cells, kattis.RoleAcc))
				out = append(out, Problem{
					ID:         textutil.LastPath(href),
					Name:       problemsLayout.Text(cells, kattis.RoleName),
					Fastest:    textutil.DashFloat(problemsLayout.Text(cells, kattis.RoleFastest), math.Inf(1)),
					Shortest:   textutil.DashInt(problemsLayout.Text(cells, kattis.RoleShortest), -1),
					Total:      total,
					Acc:        acc,
					Difficulty: difficulty,
					Category:   category,
					Link:       c.Abs(href),
				})
			})
			return count
		})
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[Problem]{}, err
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return kattis.NewResult(out), nil
	})
}

// ProblemList lists problem ids and links only. With solvedOnly it scans the
// accepted-submission history; otherwise it reads the problem-filter dropdown
// on the user page, which is a single request.
func (c *Client) ProblemList(ctx context.Context, solvedOnly bool) (kattis.Result[kattis.ProblemSummary], error) {
	if solvedOnly {
		return c.SolvedProblems(ctx)
	}
	return c.ProblemDropdown(ctx)
}

// Problem fetches full details for one or more problem ids: statement text,
// metadata, per-language statistics and the user's own submissions. Unknown
// ids are skipped with a warning. Attachments are only downloaded when
// downloadFiles is set.
func (c *Client) Problem(ctx context.Context, downloadFiles bool, ids ...string) (kattis.Result[kattis.ProblemDetail], error) {
	ctx, span := tracer.Start(ctx, "open:Problem")
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

			meta, err := c.ProblemMetadata(ctx, page.Doc, downloadFiles)
			if err != nil {
				return kattis.Result[kattis.ProblemDetail]{}, err
			}
			stats, err := c.ProblemStatistics(ctx, "/problems/"+id)
			if err != nil {
				return kattis.Result[kattis.ProblemDetail]{}, err
			}
			subs, err := c.OwnSubmissions(ctx, "/problems/"+id)
			if err != nil {
				return kattis.Result[kattis.ProblemDetail]{}, err
			}

			out = append(out, kattis.ProblemDetail{
				ID:          id,
				Text:        kattis.ProblemBody(page.Doc),
				CPU:         meta.CPU,
				Memory:      meta.Memory,
				Difficulty:  meta.Difficulty,
				Category:    meta.Category,
				Author:      meta.Author,
				Source:      meta.Source,
				Files:       meta.Files,
				Statistics:  stats,
				Submissions: subs,
			})
		}
		return kattis.NewResult(out), nil
	})
}

// achievementsLayout maps the solved-problems grid on the user page.
var achievementsLayout = kattis.Layout{
	kattis.RoleName:        0,
	kattis.RoleRuntime:     1,
	kattis.RoleLength:      2,
	kattis.RoleAchievement: 3,
	kattis.RoleDifficulty:  4,
}

// Achievements lists the solved problems that earned a badge, such as being
// within reach of the fastest or shortest accepted solution.
func (c *Client) Achievements(ctx context.Context) (kattis.Result[Achievement], error) {
	ctx, span := tracer.Start(ctx, "open:Achievements")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("achievements"), func() (kattis.Result[Achievement], error) {
		var out []Achievement
		q := kattis.PageQuery{
			Path:      "/users/" + c.Username,
			StartPage: 1,
		}
		err := c.ForEachPage(ctx, q, func(doc *goquery.Document) int {
			count := 0
			htmlutil.TableRows(doc.Find("table.table2").First()).Each(func(_ int, row *goquery.Selection) {
				cells := htmlutil.Cells(row)
				if !htmlutil.HasContent(cells) {
					return
				}
				href, ok := achievementsLayout.Href(cells, kattis.RoleName)
				if !ok {
					return
				}
				count++

				badges := achievementBadges(achievementsLayout.Cell(cells, kattis.RoleAchievement))
				if badges == "" {
					return
				}
				difficulty, category := textutil.SplitDifficulty(
					achievementsLayout.Text(cells, kattis.RoleDifficulty), textutil.DifficultyMax)
				out = append(out, Achievement{
					ID:          textutil.LastPath(href),
					Name:        achievementsLayout.Text(cells, kattis.RoleName),
					Runtime:     textutil.DashFloat(achievementsLayout.Text(cells, kattis.RoleRuntime), math.Inf(1)),
					Length:      textutil.DashInt(achievementsLayout.Text(cells, kattis.RoleLength), -1),
					Achievement: badges,
					Difficulty:  difficulty,
					Category:    category,
					Link:        c.Abs(href),
				})
			})
			return count
		})
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[Achievement]{}, err
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return kattis.NewResult(out), nil
	})
}

// achievementBadges joins a row's badge labels, sorted and deduplicated.
// Badge spans wrap exactly one inner span holding the label.
func achievementBadges(cell *goquery.Selection) string {
	seen := map[string]bool{}
	cell.Find("span").Each(func(_ int, span *goquery.Selection) {
		if span.Find("span").Length() != 1 {
			return
		}
		if t := strings.TrimSpace(span.Text()); t != "" {
			seen[t] = true
		}
	})
	badges := make([]string, 0, len(seen))
	for b := range seen {
		badges = append(badges, b)
	}
	sort.Strings(badges)
	return strings.Join(badges, ", ")
}

// Suggest reads the suggested-problems box from the landing page retained at
// login. Difficulty group headers span several rows.
func (c *Client) Suggest(ctx context.Context) (kattis.Result[Suggestion], error) {
	_, span := tracer.Start(ctx, "open:Suggest")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("suggest"), func() (kattis.Result[Suggestion], error) {
		table := c.Homepage().Find("table.table2.report_grid-problems_table").First()

		var out []Suggestion
		difficulty := ""
		htmlutil.TableRows(table).Each(func(_ int, row *goquery.Selection) {
			if h := row.Find("th"); h.Length() > 0 {
				difficulty = strings.TrimSpace(h.Text())
			}
			cell := row.Find("td").First()
			href, ok := cell.Find("a").First().Attr("href")
			if !ok {
				return
			}
			id := textutil.LastPath(href)

			name, lo, hi := splitSuggestion(cell.Text())
			out = append(out, Suggestion{
				ID:         id,
				Difficulty: difficulty,
				Name:       name,
				Link:       c.Abs("/problems/" + id),
				Min:        lo,
				Max:        hi,
			})
		})
		return kattis.NewResult(out), nil
	})
}

// splitSuggestion breaks a suggestion cell into its name line and the
// difficulty bounds of its "1.8 - 6.1 pt" line.
func splitSuggestion(text string) (name string, lo, hi float64) {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)
	name = strings.TrimSpace(lines[0])
	if len(lines) < 2 {
		return name, 0, 0
	}
	pt := strings.Trim(strings.TrimSpace(lines[1]), " pt")
	bounds := strings.Split(pt, "-")
	lo, _ = strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
	hi, _ = strconv.ParseFloat(strings.TrimSpace(bounds[len(bounds)-1]), 64)
	return name, lo, hi
}
