package kattis

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/stretchr/testify/require"
)

func rowCells(t *testing.T, rowHTML string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table><tbody>" + rowHTML + "</tbody></table>",
	))
	require.NoError(t, err)
	return htmlutil.Cells(htmlutil.TableRows(doc.Find("table")).First())
}

func TestLayoutFromEndOffsets(t *testing.T) {
	// a country page without the optional University column: score is still
	// addressable from the end
	l := Layout{RoleRank: 0, RoleUser: 1, RoleScore: -1}
	cells := rowCells(t, `<tr><td>3</td><td><a href="/users/gamma">Gamma</a></td><td>123.4</td></tr>`)

	require.Equal(t, "3", l.Text(cells, RoleRank))
	require.Equal(t, "123.4", l.Text(cells, RoleScore))
	require.False(t, l.Has(RoleUniversity))
	require.Equal(t, "", l.Text(cells, RoleUniversity))
}

func TestLayoutWithOptionalColumns(t *testing.T) {
	l := Layout{RoleRank: 0, RoleUser: 1, RoleSubdivision: 2, RoleUniversity: -2, RoleScore: -1}
	cells := rowCells(t, `<tr>
		<td>1</td>
		<td><a href="/users/alpha">Alpha</a></td>
		<td><a href="/subdivisions/SG-01">Central</a></td>
		<td><a href="/universities/nus.edu.sg">NUS</a></td>
		<td>999.9</td>
	</tr>`)

	require.Equal(t, "NUS", l.Text(cells, RoleUniversity))
	require.Equal(t, "999.9", l.Text(cells, RoleScore))

	code, ok := l.Code(cells, RoleUniversity)
	require.True(t, ok)
	require.Equal(t, "nus.edu.sg", code)

	code, ok = l.Code(cells, RoleSubdivision)
	require.True(t, ok)
	require.Equal(t, "SG-01", code)

	_, ok = l.Code(cells, RoleScore)
	require.False(t, ok)
}

func TestLayoutShortRow(t *testing.T) {
	l := Layout{RoleRank: 0, RoleScore: 4}
	cells := rowCells(t, `<tr><td>...</td></tr>`)
	require.Equal(t, "...", l.Text(cells, RoleRank))
	require.Equal(t, "", l.Text(cells, RoleScore))
}

func TestHasHeader(t *testing.T) {
	headers := []string{"Rank", "User", "Subdivision", "Score"}
	require.True(t, HasHeader(headers, "Subdivision"))
	require.False(t, HasHeader(headers, "University"))
}
