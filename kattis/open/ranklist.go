package open

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/RussellDash332/autokattis/kattis"
	"github.com/RussellDash332/autokattis/lib/htmlutil"
	"github.com/RussellDash332/autokattis/lib/textutil"
)

var (
	userRanklistLayout = kattis.Layout{
		kattis.RoleRank:       0,
		kattis.RoleUser:       1,
		kattis.RoleCountry:    2,
		kattis.RoleUniversity: 3,
		kattis.RoleScore:      4,
	}
	countryRanklistLayout = kattis.Layout{
		kattis.RoleRank:         0,
		kattis.RoleCountry:      1,
		kattis.RoleUsers:        2,
		kattis.RoleUniversities: 3,
		kattis.RoleScore:        4,
	}
	universityRanklistLayout = kattis.Layout{
		kattis.RoleRank:        0,
		kattis.RoleUniversity:  1,
		kattis.RoleCountry:     2,
		kattis.RoleSubdivision: 3,
		kattis.RoleUsers:       4,
		kattis.RoleScore:       5,
	}
	// single-scope ranklists drop columns the scope fixes, so the trailing
	// ones are addressed from the end of the row
	singleCountryLayout = kattis.Layout{
		kattis.RoleRank:        0,
		kattis.RoleUser:        1,
		kattis.RoleSubdivision: 2,
		kattis.RoleUniversity:  -2,
		kattis.RoleScore:       -1,
	}
	singleUniversityLayout = kattis.Layout{
		kattis.RoleRank:        0,
		kattis.RoleUser:        1,
		kattis.RoleCountry:     2,
		kattis.RoleSubdivision: -2,
		kattis.RoleScore:       -1,
	}
	nearbyLayout = kattis.Layout{
		kattis.RoleRank:  0,
		kattis.RoleUser:  1,
		kattis.RoleScore: 2,
	}
)

// eachRanklistRow walks a ranklist's rows, stopping at the single-cell
// ellipsis row that separates the board from the viewer's own position.
func eachRanklistRow(table *goquery.Selection, fn func(cells *goquery.Selection)) {
	htmlutil.TableRows(table).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := htmlutil.Cells(row)
		if cells.Length() == 1 {
			return false
		}
		if htmlutil.HasContent(cells) {
			fn(cells)
		}
		return true
	})
}

func textPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rankNumber parses a rank cell; non-numeric cells (the unranked trailer)
// yield nil.
func rankNumber(text string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &n
}

func scoreNumber(text string) float64 {
	runs := textutil.NumericRuns(text)
	if len(runs) == 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(runs[0], 64)
	return v
}

// linkedPlace extracts a code-bearing cell such as a country or university
// column: the display text plus the code from the cell's link. Both are nil
// when the cell is blank.
func linkedPlace(cells *goquery.Selection, layout kattis.Layout, role kattis.Role) (name, code *string) {
	text := layout.Text(cells, role)
	if text == "" {
		return nil, nil
	}
	name = &text
	if v, ok := layout.Code(cells, role); ok {
		code = &v
	}
	return name, code
}

// UserRanklist retrieves the global top-100 users.
func (c *Client) UserRanklist(ctx context.Context) (kattis.Result[UserRank], error) {
	ctx, span := tracer.Start(ctx, "open:UserRanklist")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("user_ranklist"), func() (kattis.Result[UserRank], error) {
		doc, err := c.Doc(ctx, "/ranklist", nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[UserRank]{}, err
		}

		var out []UserRank
		eachRanklistRow(doc.Find("table#top_users"), func(cells *goquery.Selection) {
			username, ok := userRanklistLayout.Code(cells, kattis.RoleUser)
			if !ok {
				return
			}
			country, countryCode := linkedPlace(cells, userRanklistLayout, kattis.RoleCountry)
			university, universityCode := linkedPlace(cells, userRanklistLayout, kattis.RoleUniversity)
			out = append(out, UserRank{
				Rank:           rankNumber(userRanklistLayout.Text(cells, kattis.RoleRank)),
				Name:           userRanklistLayout.Text(cells, kattis.RoleUser),
				Username:       username,
				Points:         scoreNumber(userRanklistLayout.Text(cells, kattis.RoleScore)),
				CountryCode:    countryCode,
				Country:        country,
				UniversityCode: universityCode,
				University:     university,
			})
		})
		return kattis.NewResult(out), nil
	})
}

// CountryRanklist retrieves the top-100 countries, or a single country's
// top-50 users when value names a country. value may be a country code, an
// exact name, or a close-enough misspelling.
func (c *Client) CountryRanklist(ctx context.Context, value string) (kattis.Result[CountryRank], kattis.Result[CountryUserRank], error) {
	ctx, span := tracer.Start(ctx, "open:CountryRanklist")
	defer span.End()

	if value == "" {
		res, err := kattis.Memoize(c.Client, kattis.CacheKey("country_ranklist"), func() (kattis.Result[CountryRank], error) {
			return c.topCountries(ctx)
		})
		return res, kattis.Result[CountryUserRank]{}, err
	}

	code, err := kattis.Resolve(value, c.DB().Countries())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return kattis.Result[CountryRank]{}, kattis.Result[CountryUserRank]{}, err
	}
	res, err := kattis.Memoize(c.Client, kattis.CacheKey("country_ranklist", code), func() (kattis.Result[CountryUserRank], error) {
		return c.singleCountry(ctx, code)
	})
	return kattis.Result[CountryRank]{}, res, err
}

func (c *Client) topCountries(ctx context.Context) (kattis.Result[CountryRank], error) {
	doc, err := c.Doc(ctx, "/ranklist/countries", nil)
	if err != nil {
		return kattis.Result[CountryRank]{}, err
	}

	var out []CountryRank
	eachRanklistRow(doc.Find("table.table2.report_grid-problems_table"), func(cells *goquery.Selection) {
		code, ok := countryRanklistLayout.Code(cells, kattis.RoleCountry)
		if !ok {
			return
		}
		rank, _ := strconv.Atoi(countryRanklistLayout.Text(cells, kattis.RoleRank))
		users, _ := strconv.Atoi(countryRanklistLayout.Text(cells, kattis.RoleUsers))
		universities, _ := strconv.Atoi(countryRanklistLayout.Text(cells, kattis.RoleUniversities))
		out = append(out, CountryRank{
			Rank:         rank,
			Country:      countryRanklistLayout.Text(cells, kattis.RoleCountry),
			CountryCode:  code,
			Users:        users,
			Universities: universities,
			Points:       scoreNumber(countryRanklistLayout.Text(cells, kattis.RoleScore)),
		})
	})
	return kattis.NewResult(out), nil
}

func (c *Client) singleCountry(ctx context.Context, code string) (kattis.Result[CountryUserRank], error) {
	doc, err := c.Doc(ctx, "/countries/"+code, nil)
	if err != nil {
		return kattis.Result[CountryUserRank]{}, err
	}

	table := doc.Find("table#top_users")
	headers := htmlutil.TableHeaders(table)
	country := c.DB().Countries()[code]

	var out []CountryUserRank
	eachRanklistRow(table, func(cells *goquery.Selection) {
		username, ok := singleCountryLayout.Code(cells, kattis.RoleUser)
		if !ok {
			return
		}
		rank, _ := strconv.Atoi(singleCountryLayout.Text(cells, kattis.RoleRank))
		r := CountryUserRank{
			Rank:        rank,
			Name:        singleCountryLayout.Text(cells, kattis.RoleUser),
			Username:    username,
			Points:      scoreNumber(singleCountryLayout.Text(cells, kattis.RoleScore)),
			CountryCode: code,
			Country:     country,
		}
		if kattis.HasHeader(headers, "Subdivision") {
			r.Subdivision, r.SubdivisionCode = linkedPlace(cells, singleCountryLayout, kattis.RoleSubdivision)
		}
		if kattis.HasHeader(headers, "University") {
			r.University, r.UniversityCode = linkedPlace(cells, singleCountryLayout, kattis.RoleUniversity)
		}
		out = append(out, r)
	})
	return kattis.NewResult(out), nil
}

// UniversityRanklist retrieves the top-100 universities, or a single
// university's top-50 users when value names one. value may be a code like
// "nus.edu.sg", an exact name, or a close-enough misspelling.
func (c *Client) UniversityRanklist(ctx context.Context, value string) (kattis.Result[UniversityRank], kattis.Result[UniversityUserRank], error) {
	ctx, span := tracer.Start(ctx, "open:UniversityRanklist")
	defer span.End()

	if value == "" {
		res, err := kattis.Memoize(c.Client, kattis.CacheKey("university_ranklist"), func() (kattis.Result[UniversityRank], error) {
			return c.topUniversities(ctx)
		})
		return res, kattis.Result[UniversityUserRank]{}, err
	}

	code, err := kattis.Resolve(value, c.DB().Affiliations())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return kattis.Result[UniversityRank]{}, kattis.Result[UniversityUserRank]{}, err
	}
	res, err := kattis.Memoize(c.Client, kattis.CacheKey("university_ranklist", code), func() (kattis.Result[UniversityUserRank], error) {
		return c.singleUniversity(ctx, code)
	})
	return kattis.Result[UniversityRank]{}, res, err
}

func (c *Client) topUniversities(ctx context.Context) (kattis.Result[UniversityRank], error) {
	doc, err := c.Doc(ctx, "/ranklist/universities", nil)
	if err != nil {
		return kattis.Result[UniversityRank]{}, err
	}

	var out []UniversityRank
	eachRanklistRow(doc.Find("table.table2.report_grid-problems_table"), func(cells *goquery.Selection) {
		uniCode, ok := universityRanklistLayout.Code(cells, kattis.RoleUniversity)
		if !ok {
			return
		}
		countryCode, _ := universityRanklistLayout.Code(cells, kattis.RoleCountry)
		rank, _ := strconv.Atoi(universityRanklistLayout.Text(cells, kattis.RoleRank))
		users, _ := strconv.Atoi(universityRanklistLayout.Text(cells, kattis.RoleUsers))
		out = append(out, UniversityRank{
			Rank:           rank,
			University:     universityRanklistLayout.Text(cells, kattis.RoleUniversity),
			UniversityCode: uniCode,
			Country:        universityRanklistLayout.Text(cells, kattis.RoleCountry),
			CountryCode:    countryCode,
			Subdivision:    textPtr(universityRanklistLayout.Text(cells, kattis.RoleSubdivision)),
			Users:          users,
			Points:         scoreNumber(universityRanklistLayout.Text(cells, kattis.RoleScore)),
		})
	})
	return kattis.NewResult(out), nil
}

func (c *Client) singleUniversity(ctx context.Context, code string) (kattis.Result[UniversityUserRank], error) {
	doc, err := c.Doc(ctx, "/universities/"+code, nil)
	if err != nil {
		return kattis.Result[UniversityUserRank]{}, err
	}

	table := doc.Find("table#top_users")
	headers := htmlutil.TableHeaders(table)
	university := c.DB().Affiliations()[code]

	var out []UniversityUserRank
	eachRanklistRow(table, func(cells *goquery.Selection) {
		username, ok := singleUniversityLayout.Code(cells, kattis.RoleUser)
		if !ok {
			return
		}
		rank, _ := strconv.Atoi(singleUniversityLayout.Text(cells, kattis.RoleRank))
		r := UniversityUserRank{
			Rank:           rank,
			Name:           singleUniversityLayout.Text(cells, kattis.RoleUser),
			Username:       username,
			Points:         scoreNumber(singleUniversityLayout.Text(cells, kattis.RoleScore)),
			UniversityCode: code,
			University:     university,
		}
		if kattis.HasHeader(headers, "Country") {
			r.Country, r.CountryCode = linkedPlace(cells, singleUniversityLayout, kattis.RoleCountry)
		}
		if kattis.HasHeader(headers, "Subdivision") {
			r.Subdivision, r.SubdivisionCode = linkedPlace(cells, singleUniversityLayout, kattis.RoleSubdivision)
		}
		out = append(out, r)
	})
	return kattis.NewResult(out), nil
}

// ChallengeRanklist retrieves the top-100 users by challenge score.
func (c *Client) ChallengeRanklist(ctx context.Context) (kattis.Result[ChallengeRank], error) {
	ctx, span := tracer.Start(ctx, "open:ChallengeRanklist")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("challenge_ranklist"), func() (kattis.Result[ChallengeRank], error) {
		doc, err := c.Doc(ctx, "/ranklist/challenge", nil)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return kattis.Result[ChallengeRank]{}, err
		}

		var out []ChallengeRank
		eachRanklistRow(doc.Find("table.table2.report_grid-problems_table"), func(cells *goquery.Selection) {
			username, ok := userRanklistLayout.Code(cells, kattis.RoleUser)
			if !ok {
				return
			}
			country, countryCode := linkedPlace(cells, userRanklistLayout, kattis.RoleCountry)
			university, universityCode := linkedPlace(cells, userRanklistLayout, kattis.RoleUniversity)
			out = append(out, ChallengeRank{
				Rank:           rankNumber(userRanklistLayout.Text(cells, kattis.RoleRank)),
				Name:           userRanklistLayout.Text(cells, kattis.RoleUser),
				Username:       username,
				Score:          scoreNumber(userRanklistLayout.Text(cells, kattis.RoleScore)),
				CountryCode:    countryCode,
				Country:        country,
				UniversityCode: universityCode,
				University:     university,
			})
		})
		return kattis.NewResult(out), nil
	})
}

// Ranklist reads the "users near me" box from the landing page retained at
// login. The user cell carries up to three links: the user, their country
// flag and their university crest; links are told apart by path.
func (c *Client) Ranklist(ctx context.Context) (kattis.Result[NearbyRank], error) {
	_, span := tracer.Start(ctx, "open:Ranklist")
	defer span.End()

	return kattis.Memoize(c.Client, kattis.CacheKey("ranklist"), func() (kattis.Result[NearbyRank], error) {
		table := c.Homepage().Find("table.table2.report_grid-problems_table").Eq(1)

		var out []NearbyRank
		htmlutil.TableRows(table).Each(func(_ int, row *goquery.Selection) {
			cells := htmlutil.Cells(row)
			if !htmlutil.HasContent(cells) {
				return
			}
			r := NearbyRank{
				Rank:   rankNumber(nearbyLayout.Text(cells, kattis.RoleRank)),
				Name:   nearbyLayout.Text(cells, kattis.RoleUser),
				Points: scoreNumber(nearbyLayout.Text(cells, kattis.RoleScore)),
			}
			nearbyLayout.Cell(cells, kattis.RoleUser).Find("a").Each(func(_ int, a *goquery.Selection) {
				href, _ := a.Attr("href")
				title := a.AttrOr("title", "")
				parts := strings.Split(href, "/")
				code := textutil.LastPath(href)
				switch {
				case slices.Contains(parts, "users"):
					r.Username = code
				case slices.Contains(parts, "countries"):
					r.CountryCode = &code
					r.Country = textPtr(title)
				case slices.Contains(parts, "universities"):
					r.UniversityCode = &code
					r.University = textPtr(title)
				}
			})
			if r.Username == "" {
				return
			}
			out = append(out, r)
		})
		return kattis.NewResult(out), nil
	})
}
