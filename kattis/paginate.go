package kattis

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PageQuery describes a paginated endpoint: a fixed path, base filter
// parameters and the page number the endpoint starts counting from (0 or 1
// depending on the endpoint).
type PageQuery struct {
	Path      string
	Params    url.Values
	StartPage int
}

// ForEachPage drives round-based concurrent fetching: each round issues one
// batch of Workers consecutive page requests, waits for the whole batch, and
// stops after the first round in which no page contributed a data row.
// handle returns the number of rows it extracted from a page; it runs under
// an internal lock, so it may freely mutate caller state. Pages may arrive
// in any order within a round.
func (c *Client) ForEachPage(ctx context.Context, q PageQuery, handle func(doc *goquery.Document) int) error {
	ctx, span := tracer.Start(ctx, "client:ForEachPage")
	defer span.End()
	span.SetAttributes(attribute.String("path", q.Path))

	page := q.StartPage
	for {
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			hadContent bool
			errlist    []error
		)

		for i := 0; i < c.workers; i++ {
			params := url.Values{}
			for k, v := range q.Params {
				params[k] = v
			}
			params.Set("page", strconv.Itoa(page))
			page++

			wg.Add(1)
			go func(params url.Values) {
				defer wg.Done()

				doc, err := c.Doc(ctx, q.Path, params)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errlist = append(errlist, err)
					return
				}
				if handle(doc) > 0 {
					hadContent = true
				}
			}(params)
		}
		wg.Wait()

		if err := errors.Join(errlist...); err != nil {
			span.SetStatus(codes.Error, "page fetch failed")
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !hadContent {
			return nil
		}
	}
}
