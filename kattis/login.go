package kattis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var csrfTokenRegex = regexp.MustCompile(`value="(\d+)"`)

// login runs the email login flow and derives the canonical username from
// the authenticated landing page. The landing page document is returned so
// the client can keep it for endpoints that embed "near me" data.
func (c *Client) login(ctx context.Context, username, password string) (string, *goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:login")
	defer span.End()

	res, err := c.Http.R().SetContext(ctx).Get("/login/email")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login form")
		return "", nil, err
	}

	matches := csrfTokenRegex.FindAllStringSubmatch(string(res.Body()), -1)
	if len(matches) != 1 {
		span.SetStatus(codes.Error, "csrf token ambiguous")
		return "", nil, &AuthError{
			Reason: TokenAmbiguous,
			Detail: fmt.Sprintf("found %d candidate tokens", len(matches)),
		}
	}
	token := matches[0][1]

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"csrf_token": token,
			"user":       username,
			"password":   password,
		}).
		Post("/login/email")
	if err != nil {
		// the redirect policy pins us to the site's origin; a post-login
		// bounce off-site is a rejection, not a transport failure
		if strings.Contains(err.Error(), "DomainCheckRedirectPolicy") {
			span.SetStatus(codes.Error, "login rejected")
			return "", nil, &AuthError{Reason: LoginRejected, Detail: err.Error()}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return "", nil, err
	}

	// a rejected login bounces back to a login page
	finalURL := res.RawResponse.Request.URL
	if strings.Contains(finalURL.Path, "login") {
		span.SetStatus(codes.Error, "login rejected")
		return "", nil, &AuthError{Reason: LoginRejected, Detail: finalURL.String()}
	}

	res, err = c.Http.R().SetContext(ctx).Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request landing page")
		return "", nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse landing page")
		return "", nil, err
	}

	canonical := canonicalUsername(doc)
	if canonical == "" {
		span.SetStatus(codes.Error, "username not found")
		return "", nil, &AuthError{
			Reason: UsernameNotFound,
			Detail: fmt.Sprintf("no /users/ link on landing page for %q", username),
		}
	}

	slog.InfoContext(ctx, "logged in", "username", canonical)
	return canonical, doc, nil
}

// canonicalUsername tallies every /users/{name} link on the landing page and
// picks the most frequent name, ties broken by first appearance.
func canonicalUsername(doc *goquery.Document) string {
	counts := map[string]int{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		paths := strings.Split(href, "/")
		if len(paths) > 2 && paths[1] == "users" {
			name := paths[2]
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	})

	best := ""
	bestCount := 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best
}
