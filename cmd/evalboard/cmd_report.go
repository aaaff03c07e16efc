package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taskeval/evalboard/internal/models"
	"github.com/taskeval/evalboard/internal/report"
)

func newReportCommand() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a summary of recorded evaluations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			evals, err := st.FetchEvaluations(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching evaluations: %w", err)
			}

			if markdown {
				fmt.Fprint(cmd.OutOrStdout(), report.FormatMarkdown(evals))
				return nil
			}
			renderReport(cmd.OutOrStdout(), evals)
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Emit the report as markdown")

	return cmd
}

// renderReport writes the terminal report. Number formatting goes through
// a locale-aware printer so large counts stay readable, and column
// padding is width-aware because feedback tokens are not always ASCII.
func renderReport(w io.Writer, evals []models.Evaluation) {
	p := message.NewPrinter(language.English)

	summary := report.Summarize(evals)
	p.Fprintf(w, "Evaluations: %d total, %d correct (%.1f%%), %d incorrect (%.1f%%)\n",
		summary.Total,
		summary.Correct, summary.CorrectRate()*100,
		summary.Incorrect, summary.IncorrectRate()*100)

	if summary.Total == 0 {
		return
	}

	themes := report.TopFeedbackThemes(evals, 5)
	if len(themes) > 0 {
		fmt.Fprintln(w, "\nTop feedback themes:")
		width := 0
		for _, theme := range themes {
			if tw := runewidth.StringWidth(theme.Token); tw > width {
				width = tw
			}
		}
		for _, theme := range themes {
			pad := strings.Repeat(" ", width-runewidth.StringWidth(theme.Token))
			p.Fprintf(w, "  %s%s  %d\n", theme.Token, pad, theme.Count)
		}
	}

	gaps := report.EvaluationGaps(evals)
	if len(gaps.GapsMinutes) > 0 {
		p.Fprintf(w, "\nEvaluation pace: %.1f minutes between evaluations on average (σ=%.1f, n=%d)\n",
			gaps.MeanMinutes, gaps.StdDevMins, len(gaps.GapsMinutes))
	}
}
