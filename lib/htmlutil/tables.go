package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var headerWord = regexp.MustCompile(`[A-Za-z]+`)

// Text flattens the text nodes under every node of the selection, which is
// what the browser renders for a cell regardless of inline markup.
func Text(sel *goquery.Selection) string {
	var buf bytes.Buffer
	for _, n := range sel.Nodes {
		writeText(n, &buf)
	}
	return buf.String()
}

func writeText(node *html.Node, buf *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buf.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		writeText(child, buf)
	}
}

// TableHeaders returns the first alphabetic word of every <th> in the table,
// which is how the site labels its columns ("University", "Score", ...).
func TableHeaders(table *goquery.Selection) []string {
	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		word := headerWord.FindString(Text(th))
		if word != "" {
			headers = append(headers, word)
		}
	})
	return headers
}

// TableRows returns the data rows of a table body. A table without a <tbody>
// yields no rows, mirroring the site pages that render an empty table shell
// past the last page.
func TableRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tbody tr")
}

// Cells returns the <td> children of a row.
func Cells(row *goquery.Selection) *goquery.Selection {
	return row.Find("td")
}

// CellText returns the trimmed text of the i-th cell, empty when out of range.
func CellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(Text(cells.Eq(i)))
}

// HasContent reports whether any cell of the row has non-empty text.
func HasContent(cells *goquery.Selection) bool {
	found := false
	cells.EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.TrimSpace(Text(td)) != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

// FirstHref returns the href of the first anchor inside the i-th cell.
func FirstHref(cells *goquery.Selection, i int) (string, bool) {
	return cells.Eq(i).Find("a").First().Attr("href")
}

// LastHref returns the href of the last anchor inside the i-th cell. Problem
// name cells carry two links when the submission belongs to a contest, and
// the problem link is always the latter.
func LastHref(cells *goquery.Selection, i int) (string, bool) {
	return cells.Eq(i).Find("a").Last().Attr("href")
}
