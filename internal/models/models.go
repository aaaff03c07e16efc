// Package models defines the typed records shared across evalboard:
// tasks fetched from the relational store, files discovered in blob
// storage, per-extraction documents, and persisted evaluations.
package models

import "time"

// Task is a unit of work with a question, reference answer, and a
// reference solution procedure (Steps). Tasks are created by an external
// ingestion process; only Steps is ever mutated by this tool.
type Task struct {
	ID            string
	Question      string
	FinalAnswer   string
	Steps         string
	NumberOfSteps string
	Duration      string
	Tools         string
	NumberOfTools string
}

// RemoteFile is a (name, extension) pair discovered in blob storage.
// It is associated with at most one task via the naming convention
// basename == task ID. Read-only from this tool's point of view.
type RemoteFile struct {
	// Name is the full blob key, e.g. "task-42.pdf".
	Name string
	// Ext is the lowercase extension including the dot, e.g. ".pdf".
	Ext string
}

// ExtractedDocument is the ephemeral result of one extraction call. It is
// concatenated into the prompt and then discarded, never persisted.
type ExtractedDocument struct {
	// Format is the lowercase extension tag the extractor dispatched on.
	Format string
	// Text is the extracted plain text, or a one-line diagnostic standing
	// in for it when extraction failed.
	Text string
	// Source is the originating file name.
	Source string
	// ArchivePath is the member path inside an archive, empty for
	// top-level files.
	ArchivePath string
}

// Evaluation is one persisted human judgment of one model response.
// Rows are append-only: inserted once per completed workflow cycle and
// never mutated or deleted.
type Evaluation struct {
	ID        int64
	TaskID    string
	IsCorrect bool
	// Feedback is present only when the response was judged incorrect.
	Feedback  *string
	Timestamp time.Time
}
