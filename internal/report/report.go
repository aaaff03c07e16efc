// Package report aggregates persisted evaluations into the summary
// counts, feedback themes, and timing statistics shown by the report
// command and the web dashboard.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/taskeval/evalboard/internal/metrics"
	"github.com/taskeval/evalboard/internal/models"
)

// Summary holds the headline evaluation counts.
type Summary struct {
	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// CorrectRate returns the fraction of correct evaluations, 0 when empty.
func (s Summary) CorrectRate() float64 {
	return metrics.Rate(s.Correct, s.Total)
}

// IncorrectRate returns the fraction of incorrect evaluations, 0 when
// empty.
func (s Summary) IncorrectRate() float64 {
	return metrics.Rate(s.Incorrect, s.Total)
}

// Summarize counts correct and incorrect evaluations.
func Summarize(evals []models.Evaluation) Summary {
	s := Summary{Total: len(evals)}
	for _, e := range evals {
		if e.IsCorrect {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	return s
}

// stopwords excluded from feedback theme counting.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "in": {}, "it": {}, "of": {},
	"to": {}, "a": {}, "for": {}, "on": {}, "with": {}, "as": {},
	"this": {}, "that": {}, "but": {}, "be": {}, "have": {},
	"are": {}, "was": {}, "were": {}, "or": {}, "an": {}, "at": {},
	"by": {}, "from": {}, "not": {}, "your": {}, "you": {},
}

// Theme is a feedback token with its occurrence count.
type Theme struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// TopFeedbackThemes tokenizes all feedback text (lowercased, word
// characters only), drops stopwords, and returns the n most frequent
// tokens. Ties are broken by first occurrence across the feedback
// stream, which keeps the output deterministic.
func TopFeedbackThemes(evals []models.Evaluation, n int) []Theme {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	pos := 0

	for _, e := range evals {
		if e.Feedback == nil {
			continue
		}
		for _, token := range tokenize(*e.Feedback) {
			if _, skip := stopwords[token]; skip {
				continue
			}
			if _, seen := counts[token]; !seen {
				firstSeen[token] = pos
			}
			counts[token]++
			pos++
		}
	}

	themes := make([]Theme, 0, len(counts))
	for token, count := range counts {
		themes = append(themes, Theme{Token: token, Count: count})
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return firstSeen[themes[i].Token] < firstSeen[themes[j].Token]
	})
	if len(themes) > n {
		themes = themes[:n]
	}
	return themes
}

// tokenize splits text into lowercase runs of letters, digits, and
// underscores.
func tokenize(text string) []string {
	isWord := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWord(r)
	})
}

// GapStats describes the spacing between consecutive evaluations.
type GapStats struct {
	// GapsMinutes holds the consecutive timestamp differences in
	// minutes, in chronological order.
	GapsMinutes []float64 `json:"gaps_minutes"`
	MeanMinutes float64   `json:"mean_minutes"`
	StdDevMins  float64   `json:"stddev_minutes"`
}

// EvaluationGaps sorts evaluations by timestamp and computes the gaps
// between consecutive ones. Fewer than two evaluations yield no gaps.
func EvaluationGaps(evals []models.Evaluation) GapStats {
	if len(evals) < 2 {
		return GapStats{}
	}
	sorted := make([]models.Evaluation, len(evals))
	copy(sorted, evals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Minutes())
	}
	return GapStats{
		GapsMinutes: gaps,
		MeanMinutes: metrics.Mean(gaps),
		StdDevMins:  metrics.StdDev(gaps),
	}
}

// recentLimit caps the evaluation table in the markdown report.
const recentLimit = 10

// FormatMarkdown renders the full evaluation report as markdown, for the
// terminal report command and the web dashboard's HTML view.
func FormatMarkdown(evals []models.Evaluation) string {
	var b strings.Builder

	summary := Summarize(evals)
	themes := TopFeedbackThemes(evals, 5)
	gaps := EvaluationGaps(evals)

	b.WriteString("# Evaluation Report\n\n")
	b.WriteString("## Summary\n\n")
	if summary.Total == 0 {
		b.WriteString("No evaluations recorded yet.\n")
		return b.String()
	}

	b.WriteString("| Total | Correct | Incorrect | Correct % |\n")
	b.WriteString("|-------|---------|-----------|----------|\n")
	b.WriteString(fmt.Sprintf("| %d | %d | %d | %.1f%% |\n\n",
		summary.Total, summary.Correct, summary.Incorrect, summary.CorrectRate()*100))

	b.WriteString("## Feedback Themes\n\n")
	if len(themes) == 0 {
		b.WriteString("No feedback recorded.\n\n")
	} else {
		b.WriteString("| Token | Count |\n")
		b.WriteString("|-------|-------|\n")
		for _, theme := range themes {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", theme.Token, theme.Count))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Evaluation Pace\n\n")
	if len(gaps.GapsMinutes) == 0 {
		b.WriteString("Not enough evaluations to measure pace.\n\n")
	} else {
		b.WriteString(fmt.Sprintf("- **Gaps measured:** %d\n", len(gaps.GapsMinutes)))
		b.WriteString(fmt.Sprintf("- **Mean gap:** %.1f minutes\n", gaps.MeanMinutes))
		b.WriteString(fmt.Sprintf("- **Std dev:** %.1f minutes\n\n", gaps.StdDevMins))
	}

	b.WriteString("## Recent Evaluations\n\n")
	b.WriteString("| Task | Result | Feedback | Timestamp |\n")
	b.WriteString("|------|--------|----------|-----------|\n")

	sorted := make([]models.Evaluation, len(evals))
	copy(sorted, evals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	for _, e := range sorted {
		result := "✅ correct"
		if !e.IsCorrect {
			result = "❌ incorrect"
		}
		feedback := "-"
		if e.Feedback != nil && *e.Feedback != "" {
			feedback = *e.Feedback
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			e.TaskID, result, feedback, e.Timestamp.Format(time.RFC3339)))
	}

	return b.String()
}
