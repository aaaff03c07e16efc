// Package prompt wraps the interactive terminal forms used by the run
// command: task selection, satisfaction confirmation, and free-text
// collection for steps and feedback.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/taskeval/evalboard/internal/models"
)

// QuitSentinel is the select value returned when the user chooses to
// exit the evaluation loop.
const QuitSentinel = "<quit>"

// questionPreviewLen caps the question text shown in the task picker.
const questionPreviewLen = 60

// SelectTask shows a picker over the given tasks plus a quit entry.
// It returns QuitSentinel as the ID when the user chooses to quit.
func SelectTask(in io.Reader, out io.Writer, taskList []models.Task) (string, error) {
	options := make([]huh.Option[string], 0, len(taskList)+1)
	for _, t := range taskList {
		options = append(options, huh.NewOption(taskLabel(t), t.ID))
	}
	options = append(options, huh.NewOption("Quit", QuitSentinel))

	var taskID string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a task to evaluate").
				Options(options...).
				Value(&taskID),
		),
	).
		WithInput(in).
		WithOutput(out)

	if err := runForm(form, in); err != nil {
		return "", fmt.Errorf("task selection failed: %w", err)
	}
	return taskID, nil
}

// Confirm asks a yes/no question.
func Confirm(in io.Reader, out io.Writer, title string) (bool, error) {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	).
		WithInput(in).
		WithOutput(out)

	if err := runForm(form, in); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return answer, nil
}

// CollectText shows a multi-line editor pre-filled with initial and
// requires a non-blank result.
func CollectText(in io.Reader, out io.Writer, title, initial string) (string, error) {
	text := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Value(&text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("input cannot be empty")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	if err := runForm(form, in); err != nil {
		return "", fmt.Errorf("text input failed: %w", err)
	}
	return text, nil
}

// runForm runs the form, switching to accessible mode for non-TTY input
// (e.g., tests, piped input).
func runForm(form *huh.Form, in io.Reader) error {
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}
	return form.Run()
}

// taskLabel renders one picker entry: the task ID plus a question
// preview. Truncation is width-aware so wide characters don't overflow
// the picker.
func taskLabel(t models.Task) string {
	question := strings.Join(strings.Fields(t.Question), " ")
	question = runewidth.Truncate(question, questionPreviewLen, "…")
	return fmt.Sprintf("%s: %s", t.ID, question)
}
