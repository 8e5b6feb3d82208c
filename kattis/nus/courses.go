package nus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// Course is a course with a current or recently ended offering, as shown on
// the landing page.
type Course struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	CourseID string `json:"course_id"`
}

// Offering is one run of a course.
type Offering struct {
	Name    string `json:"name"`
	EndDate string `json:"end_date"`
	Link    string `json:"link"`
}

// Assignment is one assignment of a course offering. Problems holds the
// problem ids, comma-separated in assignment order.
type Assignment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Link     string `json:"link"`
	Problems string `json:"problems"`
}

// Courses lists the courses on the landing page retained at login: those
// with a current offering and those whose last offering recently ended.
func (c *Client) Courses(ctx context.Context) (kattis.Result[Course], error) {
	_, span := tracer.Start(ctx, "nus:Courses")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("courses"), func() (kattis.Result[Course], error) {
		var out []Course
		c.Homepage().Find("table.table2").Each(func(_ int, table *goquery.Selection) {
			table.Find("tr").Each(func(_ int, row *goquery.Selection) {
				cells := htmlutil.Cells(row)
				if !htmlutil.HasContent(cells) {
					return
				}
				href, ok := cells.First().Find("a").First().Attr("href")
				if !ok {
					return
				}
				out = append(out, Course{
					Name:     textutil.CollapseSpaces(cells.First().Text()),
					URL:      c.Abs(href),
					CourseID: textutil.LastPath(href),
				})
			})
		})
		sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
		return kattis.NewResult(out), nil
	})
}

// Offerings lists every offering of a course, most recently ending first.
func (c *Client) Offerings(ctx context.Context, courseID string) (kattis.Result[Offering], error) {
	ctx, span := tracer.Start(ctx, "nus:Offerings")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("offerings", courseID), func() (kattis.Result[Offering], error) {
		doc, err := c.Doc(ctx, "/courses/"+courseID, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[Offering]{}, err
		}

		var out []Offering
		htmlutil.TableRows(doc.Find("table.table2").First()).Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.Cells(row)
			if cells.Length() < 2 {
				return
			}
			href, ok := cells.First().Find("a").First().Attr("href")
			if !ok {
				return
			}
			endDate, ok := offeringEndDate(cells.Eq(1).Text())
			if !ok {
				return
			}
			out = append(out, Offering{
				Name:    textutil.CollapseSpaces(strings.ReplaceAll(cells.First().Text(), "\n", "")),
				EndDate: endDate,
				Link:    c.Abs(href),
			})
		})
		sort.Slice(out, func(i, j int) bool { return out[i].EndDate > out[j].EndDate })
		return kattis.NewResult(out), nil
	})
}

// offeringEndDate pulls the date out of an offering's period cell, which
// reads like "2024-08-12 (2024-12-08)": the parenthesized end date wins.
func offeringEndDate(text string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return "", false
	}
	return textutil.RemoveBrackets(fields[1]), true
}

// Assignments lists the assignments of a course offering together with their
// problem ids. When courseID is empty it is guessed by scanning each known
// course's offerings for the given offering name.
func (c *Client) Assignments(ctx context.Context, offeringID, courseID string) (kattis.Result[Assignment], error) {
	ctx, span := tracer.Start(ctx, "nus:Assignments")
	defer span.End()

	if courseID == "" {
		var err error
		courseID, err = c.guessCourse(ctx, offeringID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[Assignment]{}, err
		}
		slog.InfoContext(ctx, "guessed course", "course_id", courseID, "offering_id", offeringID)
	}

	key := kattis.CacheKey("assignments", courseID, offeringID)
	return kattis.Memoize(c.Client, key, func() (kattis.Result[Assignment], error) {
		doc, err := c.Doc(ctx, "/courses/"+courseID+"/"+offeringID, nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[Assignment]{}, err
		}
		return kattis.NewResult(c.parseAssignments(doc)), nil
	})
}

func (c *Client) guessCourse(ctx context.Context, offeringID string) (string, error) {
	courses, err := c.Courses(ctx)
	if err != nil {
		return "", err
	}
	for _, course := range courses.Records() {
		offerings, err := c.Offerings(ctx, course.CourseID)
		if err != nil {
			return "", err
		}
		for _, offering := range offerings.Records() {
			if offering.Name == offeringID {
				return course.CourseID, nil
			}
		}
	}
	return "", fmt.Errorf("no known course carries offering %q, please provide the course id", offeringID)
}

// parseAssignments walks the "Assignments" strip of an offering page. The
// list interleaves assignment entries with their problem entries; problem
// entries are the ones wrapped in a span.
func (c *Client) parseAssignments(doc *goquery.Document) []Assignment {
	var out []Assignment
	doc.Find("div.strip-row.w-auto").Each(func(_ int, div *goquery.Selection) {
		if strings.TrimSpace(div.Find("h2").First().Text()) != "Assignments" {
			return
		}

		var current *Assignment
		var pids []string
		flush := func() {
			if current != nil {
				current.Problems = strings.Join(pids, ",")
				out = append(out, *current)
			}
			pids = nil
		}

		div.Find("li").Each(func(_ int, li *goquery.Selection) {
			href, ok := li.Find("a").First().Attr("href")
			if !ok {
				return
			}
			if li.Find("span").Length() > 0 {
				pids = append(pids, textutil.LastPath(href))
				return
			}

			flush()
			name, status := splitAssignmentLabel(li.Text())
			link := c.Abs(href)
			current = &Assignment{
				ID:     textutil.LastPath(link),
				Name:   name,
				Status: status,
				Link:   link,
			}
		})
		flush()
	})
	return out
}

// splitAssignmentLabel breaks an assignment entry into its name line and its
// bracketed status line, e.g. "(Ended)" or "(Remaining: 7 days)".
func splitAssignmentLabel(text string) (name, status string) {
	lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)
	name = textutil.CollapseSpaces(lines[0])
	if len(lines) > 1 {
		status = textutil.RemoveBrackets(textutil.CollapseSpaces(lines[1]))
	}
	return name, status
}
