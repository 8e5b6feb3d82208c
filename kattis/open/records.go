package open

// Problem is one row of the public problem archive. Fastest is +Inf and
// Shortest is -1 when nobody has an accepted submission yet, matching the
// site's "--" placeholder.
type Problem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Fastest    float64  `json:"fastest"`
	Shortest   int      `json:"shortest"`
	Total      int      `json:"total"`
	Acc        int      `json:"acc"`
	Difficulty *float64 `json:"difficulty"`
	Category   string   `json:"category"`
	Link       string   `json:"link"`
}

// Achievement is a solved problem that earned at least one badge.
type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Runtime     float64  `json:"runtime"`
	Length      int      `json:"length"`
	Achievement string   `json:"achievement"`
	Difficulty  *float64 `json:"difficulty"`
	Category    string   `json:"category"`
	Link        string   `json:"link"`
}

// Suggestion is one entry of the homepage's suggested-problems box.
type Suggestion struct {
	ID         string  `json:"pid"`
	Difficulty string  `json:"difficulty"`
	Name       string  `json:"name"`
	Link       string  `json:"link"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// UserRank is one row of the global top-users ranklist. Rank is nil for the
// unranked trailer rows some ranklists carry.
type UserRank struct {
	Rank           *int    `json:"rank"`
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	Points         float64 `json:"points"`
	CountryCode    *string `json:"country_code"`
	Country        *string `json:"country"`
	UniversityCode *string `json:"university_code"`
	University     *string `json:"university"`
}

// CountryRank is one row of the top-countries ranklist.
type CountryRank struct {
	Rank         int     `json:"rank"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Users        int     `json:"users"`
	Universities int     `json:"universities"`
	Points       float64 `json:"points"`
}

// CountryUserRank is one row of a single country's top-users ranklist.
type CountryUserRank struct {
	Rank            int     `json:"rank"`
	Name            string  `json:"name"`
	Username        string  `json:"username"`
	Points          float64 `json:"points"`
	CountryCode     string  `json:"country_code"`
	Country         string  `json:"country"`
	SubdivisionCode *string `json:"subdivision_code"`
	Subdivision     *string `json:"subdivision"`
	UniversityCode  *string `json:"university_code"`
	University      *string `json:"university"`
}

// UniversityRank is one row of the top-universities ranklist.
type UniversityRank struct {
	Rank           int     `json:"rank"`
	University     string  `json:"university"`
	UniversityCode string  `json:"university_code"`
	Country        string  `json:"country"`
	CountryCode    string  `json:"country_code"`
	Subdivision    *string `json:"subdivision"`
	Users          int     `json:"users"`
	Points         float64 `json:"points"`
}

// UniversityUserRank is one row of a single university's top-users ranklist.
type UniversityUserRank struct {
	Rank            int     `json:"rank"`
	Name            string  `json:"name"`
	Username        string  `json:"username"`
	Points          float64 `json:"points"`
	CountryCode     *string `json:"country_code"`
	Country         *string `json:"country"`
	SubdivisionCode *string `json:"subdivision_code"`
	Subdivision     *string `json:"subdivision"`
	UniversityCode  string  `json:"university_code"`
	University      string  `json:"university"`
}

// ChallengeRank is one row of the challenge-score ranklist.
type ChallengeRank struct {
	Rank           *int    `json:"rank"`
	Name           string  `json:"name"`
	Username       string  `json:"username"`
	Score          float64 `json:"score"`
	CountryCode    *string `json:"country_code"`
	Country        *string `json:"country"`
	UniversityCode *string `json:"university_code"`
	University     *string `json:"university"`
}

// NearbyRank is one row of the homepage's "users near me" box.
type NearbyRank struct {
	Rank           *int    `json:"rank"`
	Name           string  `json:"name"`
	Points         float64 `json:"points"`
	Username       string  `json:"username"`
	CountryCode    *string `json:"country_code"`
	Country        *string `json:"country"`
	UniversityCode *string `json:"university_code"`
	University     *string `json:"university"`
}

// AuthorStat is one row of the problem-authors or problem-sources index.
type AuthorStat struct {
	Name          string   `json:"name"`
	Problems      int      `json:"problems"`
	AvgDifficulty *float64 `json:"avg_difficulty"`
	AvgCategory   string   `json:"avg_category"`
	Link          string   `json:"link"`
}
