// Package workflow implements the interactive evaluation state machine:
// submit question → collect satisfaction → optionally revise steps →
// rerun → collect feedback → persist. One Workflow owns the session state
// for one selected task; transitions happen one at a time, each handled
// to completion, and state only advances on confirmed success.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskeval/evalboard/internal/llm"
	"github.com/taskeval/evalboard/internal/models"
	"github.com/taskeval/evalboard/internal/store"
	"github.com/taskeval/evalboard/internal/tasks"
)

// State is the explicit workflow position. It replaces a pile of
// independent booleans so unreachable combinations cannot exist.
type State int

const (
	// StateIdle accepts a question submission.
	StateIdle State = iota
	// StateAwaitingSatisfaction has a response displayed and waits for
	// the first satisfaction judgment. Re-submission is rejected here.
	StateAwaitingSatisfaction
	// StateEditingSteps collects a revised steps draft.
	StateEditingSteps
	// StateRerunReady has saved revised steps and waits for a rerun.
	StateRerunReady
	// StateAwaitingRerunSatisfaction waits for the post-rerun judgment.
	StateAwaitingRerunSatisfaction
	// StateAwaitingFeedback collects feedback after a rejected rerun.
	StateAwaitingFeedback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingSatisfaction:
		return "awaiting satisfaction"
	case StateEditingSteps:
		return "editing steps"
	case StateRerunReady:
		return "rerun ready"
	case StateAwaitingRerunSatisfaction:
		return "awaiting rerun satisfaction"
	case StateAwaitingFeedback:
		return "awaiting feedback"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Validation failures are rejected locally, before any external call.
var (
	ErrEmptySteps    = errors.New("steps cannot be empty")
	ErrEmptyFeedback = errors.New("feedback cannot be empty")
)

// TransitionError reports an event fired in a state that does not accept
// it.
type TransitionError struct {
	Event string
	State State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.State)
}

// DocumentLoader supplies the concatenated extracted text for a task's
// remote files. Implemented by tasks.Loader; faked in tests.
type DocumentLoader interface {
	LoadText(ctx context.Context, files []models.RemoteFile) string
}

// Workflow drives one task through evaluation cycles. After a terminal
// state (satisfied, or feedback submitted) it re-arms: the session resets
// to idle and another cycle may run against the same task.
type Workflow struct {
	store  store.Store
	model  llm.Client
	loader DocumentLoader

	task  models.Task
	files []models.RemoteFile

	state      State
	response   string
	steps      string
	draftSteps string

	extracted       string
	extractedLoaded bool
}

// New creates a Workflow for the given task and its resolved remote files.
func New(st store.Store, model llm.Client, loader DocumentLoader, task models.Task, files []models.RemoteFile) *Workflow {
	return &Workflow{
		store:  st,
		model:  model,
		loader: loader,
		task:   task,
		files:  files,
		steps:  task.Steps,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Response returns the last model response, empty outside a cycle.
func (w *Workflow) Response() string { return w.response }

// Steps returns the current steps text, which may diverge from the
// persisted value until a save confirms.
func (w *Workflow) Steps() string { return w.steps }

// Task returns the task under evaluation.
func (w *Workflow) Task() models.Task { return w.task }

// Submit composes the prompt from the current steps, the question, and
// the extracted text of every resolved file, then invokes the model. On
// model failure the workflow stays idle and the call may be retried.
// Submission is rejected once a response is awaiting judgment.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.state != StateIdle {
		return &TransitionError{Event: "submit question", State: w.state}
	}
	if w.task.ID == "" {
		return errors.New("no task selected")
	}

	// Extraction runs once per selected task; the rerun reuses it.
	if !w.extractedLoaded {
		w.extracted = w.loader.LoadText(ctx, w.files)
		w.extractedLoaded = true
	}

	prompt := tasks.ComposePrompt(w.steps, w.task.Question, w.extracted)
	response, err := w.model.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("model call failed: %w", err)
	}
	w.response = response
	w.state = StateAwaitingSatisfaction
	return nil
}

// ConfirmSatisfaction records the judgment of the displayed response.
// Satisfied inserts one correct Evaluation and completes the cycle. Not
// satisfied advances to steps editing (first pass) or feedback collection
// (after a rerun). On persistence failure the state is unchanged and the
// judgment may be retried.
func (w *Workflow) ConfirmSatisfaction(ctx context.Context, satisfied bool) error {
	if w.state != StateAwaitingSatisfaction && w.state != StateAwaitingRerunSatisfaction {
		return &TransitionError{Event: "confirm satisfaction", State: w.state}
	}

	if satisfied {
		if err := w.store.InsertEvaluation(ctx, w.task.ID, true, nil); err != nil {
			return fmt.Errorf("recording evaluation: %w", err)
		}
		w.reset()
		return nil
	}

	if w.state == StateAwaitingSatisfaction {
		w.draftSteps = w.steps
		w.state = StateEditingSteps
	} else {
		w.state = StateAwaitingFeedback
	}
	return nil
}

// SaveSteps validates and persists the revised steps. Empty (after
// trimming) input is rejected locally with no persistence attempt. On
// store failure the workflow remains editing and the save may be retried.
func (w *Workflow) SaveSteps(ctx context.Context, edited string) error {
	if w.state != StateEditingSteps {
		return &TransitionError{Event: "save steps", State: w.state}
	}
	if strings.TrimSpace(edited) == "" {
		return ErrEmptySteps
	}
	if err := w.store.UpdateSteps(ctx, w.task.ID, edited); err != nil {
		return fmt.Errorf("updating steps: %w", err)
	}
	w.steps = edited
	w.draftSteps = edited
	w.state = StateRerunReady
	return nil
}

// Rerun re-invokes the model with the saved revised steps and the cached
// extracted text. On model failure the workflow stays rerun-ready.
func (w *Workflow) Rerun(ctx context.Context) error {
	if w.state != StateRerunReady {
		return &TransitionError{Event: "rerun model", State: w.state}
	}
	prompt := tasks.ComposePrompt(w.steps, w.task.Question, w.extracted)
	response, err := w.model.Complete(ctx, prompt)
	if err != nil {
		return fmt.Errorf("model rerun failed: %w", err)
	}
	w.response = response
	w.state = StateAwaitingRerunSatisfaction
	return nil
}

// SubmitFeedback validates and persists the final feedback as an
// incorrect Evaluation, completing the cycle. Empty (after trimming)
// feedback is rejected locally with no persistence attempt.
func (w *Workflow) SubmitFeedback(ctx context.Context, feedback string) error {
	if w.state != StateAwaitingFeedback {
		return &TransitionError{Event: "submit feedback", State: w.state}
	}
	trimmed := strings.TrimSpace(feedback)
	if trimmed == "" {
		return ErrEmptyFeedback
	}
	if err := w.store.InsertEvaluation(ctx, w.task.ID, false, &trimmed); err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}
	w.reset()
	return nil
}

// reset re-arms the workflow for a new cycle after a terminal state.
// The steps text keeps any saved revision; the extracted text stays
// cached for the task.
func (w *Workflow) reset() {
	w.response = ""
	w.draftSteps = ""
	w.state = StateIdle
}
