package kattis

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/retry"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// ProblemPage is a fetched problem page. Institutional sites redirect a bare
// problem path to a course offering, so the final URL matters to the caller.
type ProblemPage struct {
	Doc *goquery.Document
	URL string
	OK  bool
}

// FetchProblem fetches /problems/{id}, following redirects and keeping the
// final URL. A non-200 status is not an error; it marks the id as unknown.
func (c *Client) FetchProblem(ctx context.Context, id string) (*ProblemPage, error) {
	var body []byte
	var status int
	var final string
	err := retry.Do(ctx, c.retry, func() error {
		res, err := c.Http.R().SetContext(ctx).Get("/problems/" + id)
		if err != nil {
			return err
		}
		body = res.Body()
		status = res.StatusCode()
		final = res.RawResponse.Request.URL.String()
		return nil
	})
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &ProblemPage{Doc: doc, URL: final, OK: status == http.StatusOK}, nil
}

// ProblemBody returns the statement text of a problem page.
func ProblemBody(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("div.problembody").Text())
}

// ProblemMeta is the metadata-grid portion of a problem page, shared by every
// site variant.
type ProblemMeta struct {
	CPU        string
	Memory     string
	Difficulty *float64
	Category   string
	Author     string
	Source     string
	Files      map[string]ProblemFile
}

// ProblemMetadata reads the metadata cards of a problem page. Attachments and
// downloads are only fetched when downloadFiles is set; zip attachments are
// expanded in memory.
func (c *Client) ProblemMetadata(ctx context.Context, doc *goquery.Document, downloadFiles bool) (ProblemMeta, error) {
	meta := ProblemMeta{Category: "N/A", Files: map[string]ProblemFile{}}

	var firstErr error
	doc.Find("div.metadata-grid div.card").Each(func(_ int, card *goquery.Selection) {
		texts := spanTexts(card)
		if len(texts) == 0 {
			return
		}
		switch {
		case texts[0] == "CPU Time limit":
			meta.CPU = texts[len(texts)-1]
		case texts[0] == "Memory limit":
			meta.Memory = texts[len(texts)-1]
		case len(texts) > 1 && texts[1] == "Difficulty":
			meta.Difficulty, _ = textutil.SplitDifficulty(texts[0], textutil.DifficultyMax)
			if len(texts) > 2 {
				meta.Category = texts[2]
			}
		case texts[0] == "Source & License":
			meta.Author, meta.Source = parseSourceCard(card, texts)
		case texts[0] == "Attachments" || texts[0] == "Downloads":
			if !downloadFiles {
				return
			}
			if err := c.downloadCard(ctx, card, meta.Files); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return meta, firstErr
}

func spanTexts(card *goquery.Selection) []string {
	var texts []string
	card.Find("span").Each(func(_ int, span *goquery.Selection) {
		if t := strings.TrimSpace(span.Text()); t != "" {
			texts = append(texts, t)
		}
	})
	return texts
}

// parseSourceCard reads the author and source of a problem. Most pages link
// them to /problem-authors and /problem-sources; institutional pages render
// plain spans, where the first span is the card title.
func parseSourceCard(card *goquery.Selection, texts []string) (author, source string) {
	card.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		text := strings.TrimSpace(a.Text())
		switch {
		case strings.HasPrefix(href, "/problem-authors"):
			author = text
		case strings.HasPrefix(href, "/problem-sources"):
			source = text
		}
	})
	if author == "" && source == "" {
		if len(texts) > 1 {
			author = texts[1]
		}
		if len(texts) > 2 {
			source = texts[2]
		}
	}
	return author, source
}

func (c *Client) downloadCard(ctx context.Context, card *goquery.Selection, files map[string]ProblemFile) error {
	var firstErr error
	card.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		name, ok := a.Attr("download")
		if !ok || name == "" {
			name = textutil.LastPath(href)
		}
		body, status, err := c.Raw(ctx, c.Abs(href))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if status != http.StatusOK {
			slog.WarnContext(ctx, "skipping attachment", "name", name, "status", status)
			return
		}
		if strings.HasSuffix(strings.ToLower(name), ".zip") {
			entries, err := expandZip(body)
			if err != nil {
				slog.WarnContext(ctx, "failed to expand attachment", "name", name, "err", err)
				files[name] = ProblemFile{Content: string(body)}
				return
			}
			files[name] = ProblemFile{Entries: entries}
			return
		}
		files[name] = ProblemFile{Content: string(body)}
	})
	return firstErr
}

func expandZip(body []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}
	entries := map[string]string{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		entries[f.Name] = string(content)
	}
	return entries, nil
}

// statisticsLayout maps the fastest/shortest boards of the per-problem
// statistics page. Column 2 holds the runtime or the length depending on the
// board; column 3 is the language, already known from the section.
var statisticsLayout = Layout{
	RoleRank:    0,
	RoleName:    1,
	RoleRuntime: 2,
	RoleDate:    4,
}

// ProblemStatistics reads the per-language fastest and shortest boards under
// pageURL, which is a problem page or a course-offering problem page.
// Sections are matched to languages through the page's filter options, whose
// ids double as the sections' ids.
func (c *Client) ProblemStatistics(ctx context.Context, pageURL string) (map[string]LanguageStats, error) {
	ctx, span := tracer.Start(ctx, "client:ProblemStatistics")
	defer span.End()

	doc, err := c.Doc(ctx, pageURL+"/statistics", nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	type boardInfo struct {
		language    string
		description string
	}
	boards := map[string]boardInfo{}
	doc.Find("option").Each(func(_ int, opt *goquery.Selection) {
		val, ok := opt.Attr("value")
		if !ok || val == "" {
			return
		}
		title, _ := opt.Attr("data-title")
		boards[val] = boardInfo{strings.TrimSpace(opt.Text()), title}
	})

	stats := map[string]LanguageStats{}
	doc.Find("section.strip.strip-item-plain").Each(func(_ int, section *goquery.Selection) {
		sid, ok := section.Attr("id")
		if !ok {
			return
		}
		info, ok := boards[sid]
		if !ok {
			return
		}
		shortest := strings.Contains(sid, "shortest")
		sec := &StatsSection{Description: info.description}
		htmlutil.TableRows(section.Find("table")).Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.Cells(row)
			if !htmlutil.HasContent(cells) {
				return
			}
			rank, err := strconv.Atoi(statisticsLayout.Text(cells, RoleRank))
			if err != nil {
				return
			}
			r := StatsRank{
				Rank: rank,
				Name: statisticsLayout.Text(cells, RoleName),
				Date: statisticsLayout.Text(cells, RoleDate),
			}
			if code, ok := statisticsLayout.Code(cells, RoleName); ok {
				r.Username = &code
			}
			if fields := strings.Fields(statisticsLayout.Text(cells, RoleRuntime)); len(fields) > 0 {
				if shortest {
					if n, err := strconv.Atoi(fields[0]); err == nil {
						r.Length = &n
					}
				} else if f, err := strconv.ParseFloat(fields[0], 64); err == nil {
					r.Runtime = &f
				}
			}
			sec.Ranklist = append(sec.Ranklist, r)
		})
		entry := stats[info.language]
		if shortest {
			entry.Shortest = sec
		} else {
			entry.Fastest = sec
		}
		stats[info.language] = entry
	})
	return stats, nil
}

// OwnSubmissions reads the user's own submissions from a problem page's
// submissions tab. pageURL may be relative or, after an offering redirect,
// absolute.
func (c *Client) OwnSubmissions(ctx context.Context, pageURL string) ([]ProblemSubmission, error) {
	doc, err := c.Doc(ctx, pageURL, url.Values{"tab": {"submissions"}})
	if err != nil {
		return nil, err
	}

	var subs []ProblemSubmission
	htmlutil.TableRows(doc.Find("table#submissions")).Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.Cells(row)
		var texts []string
		cells.Each(func(_ int, cell *goquery.Selection) {
			if t := strings.TrimSpace(cell.Text()); t != "" {
				texts = append(texts, t)
			}
		})
		if len(texts) < 2 {
			return
		}

		sub := ProblemSubmission{Status: texts[0]}
		if passed, full, ok := rowTestcases(texts); ok {
			// the cell reads "0.12 s"; the unit stays on problem-page
			// submissions and is only stripped for the stats columns
			runtime := texts[1]
			sub.Runtime = &runtime
			sub.Language = texts[2]
			sub.TestCasePassed = &passed
			sub.TestCaseFull = &full
		} else {
			// Rejected verdicts collapse to status and language only.
			sub.Language = texts[1]
		}
		if href, ok := cells.Last().Find("a").First().Attr("href"); ok {
			sub.Link = c.Abs(href)
		}
		subs = append(subs, sub)
	})
	return subs, nil
}

func rowTestcases(texts []string) (passed, full int, ok bool) {
	if len(texts) < 4 {
		return 0, 0, false
	}
	return parseTestcases(texts[3])
}
