package kattis

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// Role names a semantic column of a scraped table.
type Role string

const (
	RoleRank         Role = "rank"
	RoleUser         Role = "user"
	RoleCountry      Role = "country"
	RoleSubdivision  Role = "subdivision"
	RoleUniversity   Role = "university"
	RoleUsers        Role = "users"
	RoleUniversities Role = "universities"
	RoleScore        Role = "score"

	RoleName        Role = "name"
	RoleProblem     Role = "problem"
	RoleStatus      Role = "status"
	RoleRuntime     Role = "runtime"
	RoleLength      Role = "length"
	RoleFastest     Role = "fastest"
	RoleShortest    Role = "shortest"
	RoleTotal       Role = "total"
	RoleAcc         Role = "acc"
	RoleDifficulty  Role = "difficulty"
	RoleLanguage    Role = "language"
	RoleTestcases   Role = "testcases"
	RoleTimestamp   Role = "timestamp"
	RoleDetails     Role = "details"
	RoleAchievement Role = "achievement"
	RoleProblems    Role = "problems"
	RoleDate        Role = "date"
)

// Layout declares where each role sits within a row. Offsets are resolved
// once per page, not per row; negative offsets count from the end of the
// row, which is how always-last columns like Score stay addressable when
// optional columns shift everything else.
type Layout map[Role]int

// Has reports whether the role exists in this layout variant.
func (l Layout) Has(r Role) bool {
	_, ok := l[r]
	return ok
}

// Cell returns the cell holding the role, or an empty selection when the
// role is absent or the row is too short.
func (l Layout) Cell(cells *goquery.Selection, r Role) *goquery.Selection {
	off, ok := l[r]
	if !ok {
		return cells.Slice(0, 0)
	}
	if off < 0 {
		off += cells.Length()
	}
	if off < 0 || off >= cells.Length() {
		return cells.Slice(0, 0)
	}
	return cells.Eq(off)
}

// Text returns the collapsed text of the role's cell.
func (l Layout) Text(cells *goquery.Selection, r Role) string {
	return strings.TrimSpace(l.Cell(cells, r).Text())
}

// Href returns the href of the first anchor in the role's cell.
func (l Layout) Href(cells *goquery.Selection, r Role) (string, bool) {
	return l.Cell(cells, r).Find("a").First().Attr("href")
}

// Code returns the last path segment of the role's first anchor, the way the
// site encodes country/university/user codes in links.
func (l Layout) Code(cells *goquery.Selection, r Role) (string, bool) {
	href, ok := l.Href(cells, r)
	if !ok {
		return "", false
	}
	return textutil.LastPath(href), true
}

// HasHeader reports whether any header cell starts with the given word.
func HasHeader(headers []string, word string) bool {
	for _, h := range headers {
		if strings.EqualFold(h, word) {
			return true
		}
	}
	return false
}
