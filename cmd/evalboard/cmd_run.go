package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taskeval/evalboard/internal/llm"
	"github.com/taskeval/evalboard/internal/models"
	"github.com/taskeval/evalboard/internal/prompt"
	"github.com/taskeval/evalboard/internal/spinner"
	"github.com/taskeval/evalboard/internal/store"
	"github.com/taskeval/evalboard/internal/tasks"
	"github.com/taskeval/evalboard/internal/workflow"
)

func newRunCommand() *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interactive evaluation loop",
		Long: `Run the interactive evaluation loop.

Pick a task, review the model's answer, and either accept it or revise the
solution steps and rerun. Every completed cycle records exactly one
evaluation.`,
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

			blobs, err := newBlobClient(cfg)
			if err != nil {
				return err
			}

			model, err := newModelClient(cfg, engine)
			if err != nil {
				return err
			}

			loader := tasks.NewLoader(blobs, newExtractor())
			in, out := cmd.InOrStdin(), cmd.OutOrStdout()
			return runLoop(cmd.Context(), runDeps{
				store:  st,
				model:  model,
				loader: loader,
				listFiles: func(ctx context.Context) ([]string, error) {
					return blobs.ListFiles(ctx)
				},
				selectTask: func(taskList []models.Task) (string, error) {
					return prompt.SelectTask(in, out, taskList)
				},
				confirm: func(title string) (bool, error) {
					return prompt.Confirm(in, out, title)
				},
				collectText: func(title, initial string) (string, error) {
					return prompt.CollectText(in, out, title, initial)
				},
				out: out,
			})
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "",
		"Model engine to use (openai or mock); overrides configuration")

	return cmd
}

// runDeps carries everything the interactive loop needs, including the
// terminal interactions as functions, so the loop is testable without a
// live store, model, or TTY.
type runDeps struct {
	store     store.Store
	model     llm.Client
	loader    workflow.DocumentLoader
	listFiles func(ctx context.Context) ([]string, error)

	selectTask  func(taskList []models.Task) (string, error)
	confirm     func(title string) (bool, error)
	collectText func(title, initial string) (string, error)

	out io.Writer
}

func runLoop(ctx context.Context, deps runDeps) error {
	// Tasks and the blob listing are independent; fetch them in parallel.
	var (
		taskList  []models.Task
		blobNames []string
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		taskList, err = deps.store.FetchTasks(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		blobNames, err = deps.listFiles(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if len(taskList) == 0 {
		fmt.Fprintln(deps.out, "No tasks found. Import some with `evalboard import`.")
		return nil
	}

	filesByTask := tasks.ResolveFiles(blobNames)
	taskByID := make(map[string]models.Task, len(taskList))
	for _, t := range taskList {
		taskByID[t.ID] = t
	}

	for {
		taskID, err := deps.selectTask(taskList)
		if err != nil {
			return err
		}
		if taskID == prompt.QuitSentinel {
			return nil
		}

		task := taskByID[taskID]
		wf := workflow.New(deps.store, deps.model, deps.loader, task, filesByTask[task.ID])
		if err := runCycle(ctx, deps, wf); err != nil {
			return err
		}
	}
}

// runCycle drives one evaluation cycle. Model and persistence failures
// are reported and offered for retry; declining a retry abandons the
// cycle and returns to the task picker without recording anything. Only
// terminal I/O failures propagate.
func runCycle(ctx context.Context, deps runDeps, wf *workflow.Workflow) error {
	fmt.Fprintf(deps.out, "\nQuestion:\n%s\n\n", wf.Task().Question)

	if ok, err := askModel(ctx, deps, wf.Submit); !ok {
		return err
	}
	printResponse(deps.out, "Model response", wf)

	satisfied, err := deps.confirm("Are you satisfied with this response?")
	if err != nil {
		return err
	}
	if ok, err := recordJudgment(ctx, deps, wf, satisfied); !ok {
		return err
	}
	if satisfied {
		fmt.Fprintln(deps.out, "Recorded as correct.")
		return nil
	}

	if ok, err := collectSteps(ctx, deps, wf); !ok {
		return err
	}

	if ok, err := askModel(ctx, deps, wf.Rerun); !ok {
		return err
	}
	printResponse(deps.out, "Model response (rerun)", wf)

	satisfied, err = deps.confirm("Are you satisfied with the rerun response?")
	if err != nil {
		return err
	}
	if ok, err := recordJudgment(ctx, deps, wf, satisfied); !ok {
		return err
	}
	if satisfied {
		fmt.Fprintln(deps.out, "Recorded as correct.")
		return nil
	}

	if ok, err := collectFeedback(ctx, deps, wf); !ok {
		return err
	}
	fmt.Fprintln(deps.out, "Recorded as incorrect with feedback.")
	return nil
}

// printResponse shows the model's answer alongside the reference answer
// from the task metadata, which is what the evaluator judges against.
func printResponse(w io.Writer, label string, wf *workflow.Workflow) {
	fmt.Fprintf(w, "%s:\n%s\n\n", label, wf.Response())
	fmt.Fprintf(w, "Final Answer from Metadata:\n%s\n\n", wf.Task().FinalAnswer)
}

// askModel runs a model call behind a spinner, offering a retry on
// failure. The workflow keeps its pre-call state across failed calls, so
// retrying is always safe. Returns ok=false when the cycle should end,
// with a nil error for a deliberate abandon.
func askModel(ctx context.Context, deps runDeps, call func(context.Context) error) (bool, error) {
	for {
		stop := spinner.Start(deps.out, "Waiting for the model...")
		err := call(ctx)
		stop()
		if err == nil {
			return true, nil
		}
		fmt.Fprintf(deps.out, "Model call failed: %v\n", err)
		again, perr := deps.confirm("Try the model call again?")
		if perr != nil {
			return false, perr
		}
		if !again {
			return false, nil
		}
	}
}

// recordJudgment persists the satisfaction judgment, offering a retry
// when the store rejects the write.
func recordJudgment(ctx context.Context, deps runDeps, wf *workflow.Workflow, satisfied bool) (bool, error) {
	for {
		err := wf.ConfirmSatisfaction(ctx, satisfied)
		if err == nil {
			return true, nil
		}
		fmt.Fprintf(deps.out, "Recording the judgment failed: %v\n", err)
		again, perr := deps.confirm("Try recording again?")
		if perr != nil {
			return false, perr
		}
		if !again {
			return false, nil
		}
	}
}

// collectSteps gathers revised steps until a save succeeds or the user
// abandons the cycle. Empty input re-prompts without a store call.
func collectSteps(ctx context.Context, deps runDeps, wf *workflow.Workflow) (bool, error) {
	for {
		edited, err := deps.collectText("Revise the solution steps", wf.Steps())
		if err != nil {
			return false, err
		}
		err = wf.SaveSteps(ctx, edited)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, workflow.ErrEmptySteps) {
			fmt.Fprintln(deps.out, "Steps cannot be empty.")
			continue
		}
		fmt.Fprintf(deps.out, "Saving the steps failed: %v\n", err)
		again, perr := deps.confirm("Try saving again?")
		if perr != nil {
			return false, perr
		}
		if !again {
			return false, nil
		}
	}
}

// collectFeedback gathers final feedback until the insert succeeds or
// the user abandons the cycle.
func collectFeedback(ctx context.Context, deps runDeps, wf *workflow.Workflow) (bool, error) {
	for {
		feedback, err := deps.collectText("What was wrong with the response?", "")
		if err != nil {
			return false, err
		}
		err = wf.SubmitFeedback(ctx, feedback)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, workflow.ErrEmptyFeedback) {
			fmt.Fprintln(deps.out, "Feedback cannot be empty.")
			continue
		}
		fmt.Fprintf(deps.out, "Recording the feedback failed: %v\n", err)
		again, perr := deps.confirm("Try recording again?")
		if perr != nil {
			return false, perr
		}
		if !again {
			return false, nil
		}
	}
}
