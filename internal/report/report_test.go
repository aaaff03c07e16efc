package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskeval/evalboard/internal/models"
)

func ptr(s string) *string { return &s }

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, 0.0, Summary{}.CorrectRate())

	s := Summarize([]models.Evaluation{
		{IsCorrect: true},
		{IsCorrect: true},
		{IsCorrect: false, Feedback: ptr("missed the answer")},
	})
	assert.Equal(t, Summary{Total: 3, Correct: 2, Incorrect: 1}, s)
	assert.InDelta(t, 2.0/3.0, s.CorrectRate(), 1e-9)
	assert.InDelta(t, 1.0/3.0, s.IncorrectRate(), 1e-9)
}

func TestTopFeedbackThemes(t *testing.T) {
	evals := []models.Evaluation{
		{IsCorrect: false, Feedback: ptr("The answer missed the table entirely")},
		{IsCorrect: false, Feedback: ptr("wrong table, wrong sheet")},
		{IsCorrect: true},
		{IsCorrect: false, Feedback: ptr("Table parsing failed; sheet ignored")},
	}

	themes := TopFeedbackThemes(evals, 5)
	require.NotEmpty(t, themes)

	// "table" appears three times and leads; stopwords like "the" never
	// appear.
	assert.Equal(t, Theme{Token: "table", Count: 3}, themes[0])
	for _, theme := range themes {
		assert.NotContains(t, stopwords, theme.Token)
	}
	assert.LessOrEqual(t, len(themes), 5)
}

func TestTopFeedbackThemesTieBreaksByFirstOccurrence(t *testing.T) {
	evals := []models.Evaluation{
		{IsCorrect: false, Feedback: ptr("zebra apple zebra apple")},
	}
	themes := TopFeedbackThemes(evals, 2)
	require.Len(t, themes, 2)
	assert.Equal(t, "zebra", themes[0].Token)
	assert.Equal(t, "apple", themes[1].Token)
}

func TestTopFeedbackThemesNoFeedback(t *testing.T) {
	assert.Empty(t, TopFeedbackThemes([]models.Evaluation{{IsCorrect: true}}, 5))
}

func TestEvaluationGaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	evals := []models.Evaluation{
		// Deliberately out of order; gaps must follow timestamps.
		{Timestamp: base.Add(30 * time.Minute)},
		{Timestamp: base},
		{Timestamp: base.Add(10 * time.Minute)},
	}

	gaps := EvaluationGaps(evals)
	require.Equal(t, []float64{10, 20}, gaps.GapsMinutes)
	assert.InDelta(t, 15.0, gaps.MeanMinutes, 1e-9)
	assert.InDelta(t, 5.0, gaps.StdDevMins, 1e-9)
}

func TestEvaluationGapsTooFew(t *testing.T) {
	assert.Empty(t, EvaluationGaps(nil).GapsMinutes)
	assert.Empty(t, EvaluationGaps([]models.Evaluation{{}}).GapsMinutes)
}

func TestFormatMarkdown(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	evals := []models.Evaluation{
		{TaskID: "t1", IsCorrect: true, Timestamp: base},
		{TaskID: "t2", IsCorrect: false, Feedback: ptr("wrong sheet"), Timestamp: base.Add(5 * time.Minute)},
	}

	md := FormatMarkdown(evals)
	assert.Contains(t, md, "# Evaluation Report")
	assert.Contains(t, md, "| 2 | 1 | 1 | 50.0% |")
	assert.Contains(t, md, "| wrong | 1 |")
	assert.Contains(t, md, "Mean gap:** 5.0 minutes")
	assert.Contains(t, md, "| t2 | ❌ incorrect | wrong sheet |")
}

func TestFormatMarkdownEmpty(t *testing.T) {
	md := FormatMarkdown(nil)
	assert.Contains(t, md, "No evaluations recorded yet.")
	assert.NotContains(t, md, "Recent Evaluations")
}
