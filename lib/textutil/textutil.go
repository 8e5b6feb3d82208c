package textutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CollapseSpaces trims the string and folds any inner whitespace run
// into a single space.
func CollapseSpaces(text string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(text), " ")
}

func RemoveBrackets(text string) string {
	text = strings.ReplaceAll(text, "(", "")
	text = strings.ReplaceAll(text, ")", "")
	return strings.TrimSpace(text)
}

// LastPath returns the final segment of a slash-separated path or URL.
func LastPath(link string) string {
	parts := strings.Split(link, "/")
	return strings.TrimSpace(parts[len(parts)-1])
}

var numericRun = regexp.MustCompile(`[\d.]+`)
var alphaRun = regexp.MustCompile(`[A-Za-z]+`)

func NumericRuns(text string) []string {
	return numericRun.FindAllString(text, -1)
}

func AlphaRuns(text string) []string {
	return alphaRun.FindAllString(text, -1)
}

// DashFloat parses a numeric cell, mapping the site's "--" display
// placeholder to the given sentinel. A cell that is neither a number nor
// the placeholder also yields the sentinel.
func DashFloat(text string, sentinel float64) float64 {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "--") {
		return sentinel
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return sentinel
	}
	return v
}

// DashInt is DashFloat for integer cells.
func DashInt(text string, sentinel int) int {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, "--") {
		return sentinel
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return sentinel
	}
	return v
}

// DifficultyPolicy selects which end of a difficulty range to keep.
type DifficultyPolicy int

const (
	// DifficultyMax keeps the upper end of a range, e.g. "4.2-4.6" -> 4.6.
	DifficultyMax DifficultyPolicy = iota
	// DifficultyMin keeps the lower end, "4.2-4.6" -> 4.2.
	DifficultyMin
)

// SplitDifficulty breaks a composite difficulty cell such as "Medium 4.2-4.6"
// into its numeric difficulty and alphabetic category. A missing numeric part
// yields nil, a missing category yields "N/A".
func SplitDifficulty(text string, policy DifficultyPolicy) (*float64, string) {
	var difficulty *float64

	runs := NumericRuns(text)
	if len(runs) > 0 {
		pick := runs[len(runs)-1]
		if policy == DifficultyMin {
			pick = runs[0]
		}
		if v, err := strconv.ParseFloat(pick, 64); err == nil {
			difficulty = &v
		}
	}

	category := "N/A"
	if words := AlphaRuns(text); len(words) > 0 {
		category = words[0]
	}
	return difficulty, category
}

// ExceededRuntime reports whether a runtime cell carries the ">" marker of a
// submission that ran past the time limit.
func ExceededRuntime(text string) bool {
	return strings.Contains(text, ">")
}

// RuntimeSeconds parses a runtime cell for comparison purposes. Exceeded
// runtimes (marked with ">") compare as effectively infinite rather than as
// their displayed bound.
func RuntimeSeconds(text string) float64 {
	if ExceededRuntime(text) {
		return 1e9
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}
