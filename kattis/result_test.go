package kattis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultRecordsCopy(t *testing.T) {
	r := NewResult([]ProblemSummary{
		{ID: "aaah", Name: "Aaah!", Link: "https://open.kattis.com/problems/aaah"},
		{ID: "hello", Name: "Hello World!", Link: "https://open.kattis.com/problems/hello"},
	})

	first := r.Records()
	first[0].ID = "mutated"
	require.Equal(t, "aaah", r.Records()[0].ID)
	require.Equal(t, 2, r.Len())
}

func TestResultTable(t *testing.T) {
	score := 95.0
	r := NewResult([]Submission{
		{ID: "hello", Name: "Hello World!", Runtime: "0.11", Language: "Kotlin", TestCasePassed: 1, TestCaseFull: 1, Link: "l1"},
		{ID: "otherside", Name: "Other Side", Runtime: "0.12", Language: "Kotlin", TestCasePassed: 42, TestCaseFull: 42, Score: &score, Link: "l2"},
	})

	rendered := r.Table()
	require.Contains(t, rendered, "id")
	require.Contains(t, rendered, "language")
	require.Contains(t, rendered, "hello")
	require.Contains(t, rendered, "95")

	// iteration is repeatable
	require.Equal(t, rendered, r.Table())
}

func TestResultTableScalar(t *testing.T) {
	r := NewResult([]string{"a", "b"})
	rendered := r.Table()
	require.True(t, strings.Contains(rendered, "a") && strings.Contains(rendered, "b"))
}
