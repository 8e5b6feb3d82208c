package kattis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// Database holds the session's code<->display-name mappings for languages,
// countries and affiliations. It is built once at session init and read-only
// afterwards, so concurrent fetches can share it without locking.
type Database struct {
	languages    map[string]string
	countries    map[string]string
	affiliations map[string]string
}

func emptyDatabase() *Database {
	return &Database{
		languages:    map[string]string{},
		countries:    map[string]string{},
		affiliations: map[string]string{},
	}
}

// Languages maps language code to display name.
func (d *Database) Languages() map[string]string { return d.languages }

// Countries maps country code to display name.
func (d *Database) Countries() map[string]string { return d.countries }

// Affiliations maps affiliation code to display name.
func (d *Database) Affiliations() map[string]string { return d.affiliations }

// LanguageCode accepts either a language code or a display name and returns
// the code the site expects as a filter value.
func (d *Database) LanguageCode(v string) (string, bool) {
	if _, ok := d.languages[v]; ok {
		return v, true
	}
	for code, name := range d.languages {
		if name == v {
			return code, true
		}
	}
	return "", false
}

// LanguageName maps a code or display name to the display name shown in
// submission tables.
func (d *Database) LanguageName(v string) (string, bool) {
	if name, ok := d.languages[v]; ok {
		return name, true
	}
	for _, name := range d.languages {
		if name == v {
			return name, true
		}
	}
	return "", false
}

func buildDatabase(ctx context.Context, c *Client) (*Database, error) {
	ctx, span := tracer.Start(ctx, "client:buildDatabase")
	defer span.End()

	db := emptyDatabase()

	userPage, err := c.Doc(ctx, "/users/"+c.Username, nil)
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	userPage.Find("select[name=language] option").Each(func(_ int, opt *goquery.Selection) {
		code := strings.TrimSpace(opt.AttrOr("value", ""))
		name := strings.TrimSpace(opt.Text())
		if code != "" && name != "" {
			db.languages[code] = name
		}
	})
	slog.DebugContext(ctx, "listed languages", "n", len(db.languages))

	db.countries, err = selectData(ctx, c, "/ranklist/countries", "country_select_data", "countries")
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	slog.DebugContext(ctx, "listed countries", "n", len(db.countries))

	db.affiliations, err = selectData(ctx, c, "/ranklist/affiliations", "affiliation_select_data", "affiliations")
	if err != nil {
		return nil, fmt.Errorf("list affiliations: %w", err)
	}
	slog.DebugContext(ctx, "listed affiliations", "n", len(db.affiliations))

	return db, nil
}

// selectData decodes the JSON blob the site embeds for its searchable
// dropdowns: an array of {"url": "/countries/SGP", "text": "Singapore"}.
func selectData(ctx context.Context, c *Client, path, scriptID, category string) (map[string]string, error) {
	doc, err := c.Doc(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	out := map[string]string{}
	doc.Find("script#" + scriptID).Each(func(_ int, script *goquery.Selection) {
		var entries []struct {
			URL  string `json:"url"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(script.Text()), &entries); err != nil {
			slog.WarnContext(ctx, "failed to decode select data", "script", scriptID, "err", err)
			return
		}
		for _, e := range entries {
			href := strings.ReplaceAll(e.URL, `\`, "")
			parts := strings.Split(href, "/")
			if len(parts) > 2 && parts[1] == category {
				out[textutil.LastPath(href)] = e.Text
			}
		}
	})
	return out, nil
}
