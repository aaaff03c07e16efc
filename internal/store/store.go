// Package store provides the relational store client for tasks and
// evaluations. Reads return fully-typed records; writes are single
// statements so each Steps update and Evaluation insert is atomic.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/taskeval/evalboard/internal/models"
)

// Store is the contract the workflow and reports depend on. All four
// operations may fail; failures are returned as errors, never dropped.
type Store interface {
	// FetchTasks returns every task record.
	FetchTasks(ctx context.Context) ([]models.Task, error)
	// UpdateSteps overwrites the Steps column for the given task. The
	// overwrite is idempotent.
	UpdateSteps(ctx context.Context, taskID, steps string) error
	// InsertEvaluation appends one evaluation row. feedback is nil for
	// correct judgments; the timestamp is assigned by the database.
	InsertEvaluation(ctx context.Context, taskID string, isCorrect bool, feedback *string) error
	// FetchEvaluations returns the full evaluation history.
	FetchEvaluations(ctx context.Context) ([]models.Evaluation, error)
}

// PgURLFromEnv builds a PostgreSQL connection string from PG* environment
// variables, used when no explicit store URL is configured.
func PgURLFromEnv() (string, error) {
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	user := os.Getenv("PGUSER")
	pass := os.Getenv("PGPASSWORD")
	db := os.Getenv("PGDATABASE")
	ssl := os.Getenv("PGSSLMODE")
	if ssl == "" {
		ssl = "disable"
	}
	if host == "" || port == "" || user == "" || db == "" {
		return "", fmt.Errorf("missing required PG* env vars (PGHOST, PGPORT, PGUSER, PGDATABASE)")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl), nil
}

// Postgres implements Store over database/sql with the pq driver.
type Postgres struct {
	db *sql.DB
}

// Open connects to PostgreSQL using the given URL (or the PG* environment
// when the URL is empty) and verifies the connection with a ping.
func Open(pgURL string) (*Postgres, error) {
	if pgURL == "" {
		var err error
		pgURL, err = PgURLFromEnv()
		if err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("postgres", pgURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping verifies connectivity, used by the check command.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) FetchTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT task_id, question, final_answer, steps, number_of_steps,
		       how_long_did_this_take, tools, number_of_tools
		FROM tasks
		ORDER BY task_id`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Question, &t.FinalAnswer, &t.Steps,
			&t.NumberOfSteps, &t.Duration, &t.Tools, &t.NumberOfTools); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}
	return tasks, nil
}

func (p *Postgres) UpdateSteps(ctx context.Context, taskID, steps string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE tasks SET steps = $1 WHERE task_id = $2`, steps, taskID)
	if err != nil {
		return fmt.Errorf("updating steps for task %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking steps update for task %s: %w", taskID, err)
	}
	if n == 0 {
		return fmt.Errorf("updating steps: task %s not found", taskID)
	}
	return nil
}

func (p *Postgres) InsertEvaluation(ctx context.Context, taskID string, isCorrect bool, feedback *string) error {
	fb := sql.NullString{}
	if feedback != nil {
		fb = sql.NullString{String: *feedback, Valid: true}
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO evaluations (task_id, is_correct, user_feedback, evaluation_timestamp)
		VALUES ($1, $2, $3, NOW())`, taskID, isCorrect, fb)
	if err != nil {
		return fmt.Errorf("inserting evaluation for task %s: %w", taskID, err)
	}
	return nil
}

func (p *Postgres) FetchEvaluations(ctx context.Context) ([]models.Evaluation, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT evaluation_id, task_id, is_correct, user_feedback, evaluation_timestamp
		FROM evaluations
		ORDER BY evaluation_id`)
	if err != nil {
		return nil, fmt.Errorf("querying evaluations: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var evals []models.Evaluation
	for rows.Next() {
		var (
			e  models.Evaluation
			fb sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.IsCorrect, &fb, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning evaluation row: %w", err)
		}
		if fb.Valid {
			s := fb.String
			e.Feedback = &s
		}
		evals = append(evals, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluation rows: %w", err)
	}
	return evals, nil
}

// InsertTask adds a task record, used by the import command. Existing rows
// with the same task_id are left untouched so re-imports are safe.
func (p *Postgres) InsertTask(ctx context.Context, t models.Task) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO tasks (task_id, question, final_answer, steps, number_of_steps,
		                   how_long_did_this_take, tools, number_of_tools)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (task_id) DO NOTHING`,
		t.ID, t.Question, t.FinalAnswer, t.Steps, t.NumberOfSteps,
		t.Duration, t.Tools, t.NumberOfTools)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}
	return nil
}
