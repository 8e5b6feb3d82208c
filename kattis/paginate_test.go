package kattis

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// registerPagedList serves a numbered list endpoint with content on pages
// [0, populated) and empty pages afterwards.
func registerPagedList(fs *fakeSite, populated int) {
	fs.handle("GET /list", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= populated {
			fmt.Fprint(w, `<table class="items"><tbody></tbody></table>`)
			return
		}
		fmt.Fprintf(w, `<table class="items"><tbody><tr><td>item-%d</td></tr></tbody></table>`, page)
	})
}

func collectItems(doc *goquery.Document, out *[]string) int {
	n := 0
	doc.Find("table.items tbody tr td").Each(func(_ int, td *goquery.Selection) {
		*out = append(*out, td.Text())
		n++
	})
	return n
}

func TestForEachPageStopsAfterEmptyRound(t *testing.T) {
	fs := newFakeSite(t)
	registerPagedList(fs, 5)
	c := fs.client(t)

	var items []string
	err := c.ForEachPage(context.Background(), PageQuery{Path: "/list"}, func(doc *goquery.Document) int {
		return collectItems(doc, &items)
	})
	require.NoError(t, err)
	require.Len(t, items, 5)

	// workers=2: rounds (0,1) (2,3) (4,5) all have content, (6,7) is the
	// empty round that stops the scan
	require.Equal(t, 1, fs.requestCount("page=7"))
	require.Equal(t, 0, fs.requestCount("page=8"))
}

func TestForEachPageOrderIndependent(t *testing.T) {
	fs := newFakeSite(t)
	registerPagedList(fs, 9)
	c := fs.client(t)

	var items []string
	err := c.ForEachPage(context.Background(), PageQuery{Path: "/list"}, func(doc *goquery.Document) int {
		return collectItems(doc, &items)
	})
	require.NoError(t, err)

	sort.Strings(items)
	want := []string{}
	for i := 0; i < 9; i++ {
		want = append(want, fmt.Sprintf("item-%d", i))
	}
	sort.Strings(want)
	require.Empty(t, cmp.Diff(want, items))
}

func TestForEachPageStartPage(t *testing.T) {
	fs := newFakeSite(t)
	registerPagedList(fs, 3)
	c := fs.client(t)

	err := c.ForEachPage(context.Background(), PageQuery{Path: "/list", StartPage: 1}, func(doc *goquery.Document) int {
		var items []string
		return collectItems(doc, &items)
	})
	require.NoError(t, err)
	require.Equal(t, 0, fs.requestCount("page=0"))
	require.Equal(t, 1, fs.requestCount("page=1"))
}

func TestForEachPageCancelled(t *testing.T) {
	fs := newFakeSite(t)
	registerPagedList(fs, 100)
	c := fs.client(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.ForEachPage(ctx, PageQuery{Path: "/list"}, func(doc *goquery.Document) int {
		return 1
	})
	require.Error(t, err)
}
