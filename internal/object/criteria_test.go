package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCriteria_ShorthandSpelling(t *testing.T) {
	got, err := normalizeCriteria([]any{
		map[string]any{"name": "Operating System Version", "like": "10.15"},
		map[string]any{"name": "Application Title", "is_not": "Firefox.app", "and_or": "or"},
	})
	require.NoError(t, err)

	require.Equal(t, []Criterion{
		{Name: "Operating System Version", AndOr: "and", SearchType: "like", Value: "10.15"},
		{Name: "Application Title", AndOr: "or", SearchType: "is not", Value: "Firefox.app"},
	}, got)
}

func TestNormalizeCriteria_FlatSpelling(t *testing.T) {
	got, err := normalizeCriteria([]any{
		map[string]any{"name": "Last Check-in", "search_type": "more than x days ago", "value": "30"},
	})
	require.NoError(t, err)

	require.Equal(t, []Criterion{
		{Name: "Last Check-in", AndOr: "and", SearchType: "more than x days ago", Value: "30"},
	}, got)
}

func TestNormalizeCriteria_BothSpellingsProduceSameForm(t *testing.T) {
	shorthand, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "is": "MacBookPro18,3"},
	})
	require.NoError(t, err)

	flat, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "search_type": "is", "value": "MacBookPro18,3"},
	})
	require.NoError(t, err)

	require.Equal(t, shorthand, flat)
}

func TestNormalizeCriteria_ServerOperatorVocabulary(t *testing.T) {
	// Operators the server writes back must survive canonicalization even
	// when the declared configuration never used them.
	for _, searchType := range []string{
		"has",
		"does not have",
		"before (yyyy-mm-dd)",
		"after (yyyy-mm-dd)",
		"greater than or equal",
		"less than or equal",
	} {
		got, err := normalizeCriteria([]any{
			map[string]any{"name": "Application Title", "search_type": searchType, "value": "x"},
		})
		require.NoError(t, err, searchType)
		require.Equal(t, searchType, got[0].SearchType)
	}
}

func TestNormalizeCriteria_DateShorthand(t *testing.T) {
	got, err := normalizeCriteria([]any{
		map[string]any{"name": "Enrollment Date", "before": "2026-01-01"},
	})
	require.NoError(t, err)
	require.Equal(t, []Criterion{
		{Name: "Enrollment Date", AndOr: "and", SearchType: "before (yyyy-mm-dd)", Value: "2026-01-01"},
	}, got)
}

func TestNormalizeCriteria_MixedSpellingsFail(t *testing.T) {
	_, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "is": "x", "search_type": "like", "value": "y"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "mixes")
}

func TestNormalizeCriteria_MultipleShorthandsFail(t *testing.T) {
	_, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "is": "x", "is_not": "y"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "multiple operators")
}

func TestNormalizeCriteria_MissingOperatorFails(t *testing.T) {
	_, err := normalizeCriteria([]any{
		map[string]any{"name": "Model"},
	})
	require.Error(t, err)
}

func TestNormalizeCriteria_InvalidSearchTypeFails(t *testing.T) {
	_, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "search_type": "resembles", "value": "x"},
	})
	require.Error(t, err)
}

func TestNormalizeCriteria_InvalidAndOrFails(t *testing.T) {
	_, err := normalizeCriteria([]any{
		map[string]any{"name": "Model", "is": "x", "and_or": "xor"},
	})
	require.Error(t, err)
}

func TestNormalizeScriptRuns_BareNamesAndMappings(t *testing.T) {
	got, err := normalizeScriptRuns([]any{
		"fix-perms",
		map[string]any{"name": "install-tools", "parameters": []any{"--force", "1"}},
	})
	require.NoError(t, err)

	require.Equal(t, []ScriptRun{
		{Name: "fix-perms"},
		{Name: "install-tools", Parameters: []string{"--force", "1"}},
	}, got)
}

func TestNormalizeScriptRuns_TooManyParametersFail(t *testing.T) {
	params := make([]any, maxScriptParameters+1)
	for i := range params {
		params[i] = "p"
	}

	_, err := normalizeScriptRuns([]any{
		map[string]any{"name": "install-tools", "parameters": params},
	})
	require.Error(t, err)
}

func TestNormalizeScriptRuns_PreservesOrder(t *testing.T) {
	got, err := normalizeScriptRuns([]any{"c", "a", "b"})
	require.NoError(t, err)
	require.Equal(t, []ScriptRun{{Name: "c"}, {Name: "a"}, {Name: "b"}}, got)
}
