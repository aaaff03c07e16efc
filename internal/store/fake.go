package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskeval/evalboard/internal/models"
)

// Fake is an in-memory Store used by tests and the mock engine demo. It
// counts writes so tests can assert on the exactly-once insert/update
// guarantees, and can be made to fail on demand.
type Fake struct {
	mu    sync.Mutex
	tasks []models.Task
	evals []models.Evaluation

	nextID int64
	now    func() time.Time

	FailUpdateSteps      bool
	FailInsertEvaluation bool

	UpdateStepsCalls      int
	InsertEvaluationCalls int
}

// NewFake returns a Fake seeded with the given tasks.
func NewFake(tasks ...models.Task) *Fake {
	return &Fake{tasks: tasks, nextID: 1, now: time.Now}
}

// SetClock overrides the timestamp source for deterministic tests.
func (f *Fake) SetClock(now func() time.Time) { f.now = now }

func (f *Fake) FetchTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *Fake) UpdateSteps(ctx context.Context, taskID, steps string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateStepsCalls++
	if f.FailUpdateSteps {
		return fmt.Errorf("fake store: update steps failed")
	}
	for i := range f.tasks {
		if f.tasks[i].ID == taskID {
			f.tasks[i].Steps = steps
			return nil
		}
	}
	return fmt.Errorf("fake store: task %s not found", taskID)
}

func (f *Fake) InsertEvaluation(ctx context.Context, taskID string, isCorrect bool, feedback *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertEvaluationCalls++
	if f.FailInsertEvaluation {
		return fmt.Errorf("fake store: insert evaluation failed")
	}
	f.evals = append(f.evals, models.Evaluation{
		ID:        f.nextID,
		TaskID:    taskID,
		IsCorrect: isCorrect,
		Feedback:  feedback,
		Timestamp: f.now(),
	})
	f.nextID++
	return nil
}

func (f *Fake) FetchEvaluations(ctx context.Context) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Evaluation, len(f.evals))
	copy(out, f.evals)
	return out, nil
}

// Evaluations returns a snapshot without the Store error plumbing, for
// test assertions.
func (f *Fake) Evaluations() []models.Evaluation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Evaluation, len(f.evals))
	copy(out, f.evals)
	return out
}

// Task returns the current record for taskID, for test assertions.
func (f *Fake) Task(taskID string) (models.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return models.Task{}, false
}
