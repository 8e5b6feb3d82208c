package textutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseSpaces(t *testing.T) {
	require.Equal(t, "a b c", CollapseSpaces("  a\n\tb   c "))
	require.Equal(t, "", CollapseSpaces("   "))
}

func TestLastPath(t *testing.T) {
	require.Equal(t, "hello", LastPath("/problems/hello"))
	require.Equal(t, "123456", LastPath("https://open.kattis.com/submissions/123456"))
	require.Equal(t, "plain", LastPath("plain"))
}

func TestDashFloat(t *testing.T) {
	require.Equal(t, 0.02, DashFloat("0.02", math.Inf(1)))
	require.True(t, math.IsInf(DashFloat("--", math.Inf(1)), 1))
	require.True(t, math.IsInf(DashFloat("  --  ", math.Inf(1)), 1))
}

func TestDashInt(t *testing.T) {
	require.Equal(t, 711, DashInt("711", -1))
	require.Equal(t, -1, DashInt("--", -1))
	require.Equal(t, -1, DashInt("", -1))
}

func TestSplitDifficulty(t *testing.T) {
	d, cat := SplitDifficulty("Medium 4.2-4.6", DifficultyMax)
	require.NotNil(t, d)
	require.Equal(t, 4.6, *d)
	require.Equal(t, "Medium", cat)

	d, cat = SplitDifficulty("Medium 4.2-4.6", DifficultyMin)
	require.Equal(t, 4.2, *d)
	require.Equal(t, "Medium", cat)

	d, cat = SplitDifficulty("5.0 Hard", DifficultyMax)
	require.Equal(t, 5.0, *d)
	require.Equal(t, "Hard", cat)

	d, cat = SplitDifficulty("", DifficultyMax)
	require.Nil(t, d)
	require.Equal(t, "N/A", cat)
}

func TestRuntimeSeconds(t *testing.T) {
	require.Equal(t, 0.11, RuntimeSeconds("0.11 s"))
	require.Equal(t, 1e9, RuntimeSeconds("> 45.00 s"))
	require.True(t, math.IsInf(RuntimeSeconds(""), 1))
}
