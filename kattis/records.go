package kattis

// ProblemSummary is the low-detail problem record: just enough to know what
// exists and where it lives.
type ProblemSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

// Submission is one accepted submission row from the user's submission list.
// Runtime stays textual since exceeded runtimes ("> 45.00") can still be
// accepted on partial-scoring problems.
type Submission struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Timestamp      string   `json:"timestamp"`
	Runtime        string   `json:"runtime"`
	Language       string   `json:"language"`
	TestCasePassed int      `json:"test_case_passed"`
	TestCaseFull   int      `json:"test_case_full"`
	Score          *float64 `json:"score,omitempty"`
	Link           string   `json:"link"`
}

// ProblemFile is a downloaded attachment. Zip archives are expanded in
// memory into Entries; anything else is kept as raw Content.
type ProblemFile struct {
	Content string            `json:"content,omitempty"`
	Entries map[string]string `json:"entries,omitempty"`
}

// StatsRank is one row of a per-language fastest/shortest ranklist.
type StatsRank struct {
	Rank     int      `json:"rank"`
	Name     string   `json:"name"`
	Username *string  `json:"username"`
	Runtime  *float64 `json:"runtime,omitempty"`
	Length   *int     `json:"length,omitempty"`
	Date     string   `json:"date"`
}

// StatsSection is either the "fastest" or the "shortest" board of a language.
type StatsSection struct {
	Ranklist    []StatsRank `json:"ranklist,omitempty"`
	Description string      `json:"description"`
}

// LanguageStats groups the two boards of one language.
type LanguageStats struct {
	Fastest  *StatsSection `json:"fastest,omitempty"`
	Shortest *StatsSection `json:"shortest,omitempty"`
}

// ProblemSubmission is one of the user's own submissions on a problem page.
// Rejected submissions lack runtime and test-case counts.
type ProblemSubmission struct {
	Status         string  `json:"status"`
	Runtime        *string `json:"runtime"`
	Language       string  `json:"language"`
	TestCasePassed *int    `json:"test_case_passed"`
	TestCaseFull   *int    `json:"test_case_full"`
	Link           string  `json:"link"`
}

// ProblemDetail is the full per-problem record.
type ProblemDetail struct {
	ID          string                   `json:"id"`
	Text        string                   `json:"text"`
	CPU         string                   `json:"cpu"`
	Memory      string                   `json:"memory"`
	Difficulty  *float64                 `json:"difficulty"`
	Category    string                   `json:"category"`
	Author      string                   `json:"author"`
	Source      string                   `json:"source"`
	Files       map[string]ProblemFile   `json:"files"`
	Statistics  map[string]LanguageStats `json:"statistics"`
	Submissions []ProblemSubmission      `json:"submissions"`
	// Offerings lists the course offering URLs a problem is reachable
	// through on institutional sites; empty elsewhere.
	Offerings []string `json:"offerings,omitempty"`
}
