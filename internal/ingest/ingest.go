// Package ingest loads task metadata exports, validates them against the
// embedded JSON Schema, and maps the records into store tasks for the
// import command.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/taskeval/evalboard/internal/models"
	"github.com/taskeval/evalboard/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// metadataSchema is the compiled JSON Schema for metadata exports.
var metadataSchema *jsonschema.Schema

func init() {
	metadataSchema = mustCompileSchema(schemas.MetadataSchemaJSON, "metadata.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// record mirrors one entry of the metadata export. The odd field names
// come from the export format, including the space-separated keys under
// "Annotator Metadata".
type record struct {
	TaskID      string        `mapstructure:"task_id"`
	Question    string        `mapstructure:"Question"`
	Level       int           `mapstructure:"Level"`
	FileName    string        `mapstructure:"file_name"`
	FinalAnswer string        `mapstructure:"Final answer"`
	Metadata    annotatorMeta `mapstructure:"Annotator Metadata"`
}

type annotatorMeta struct {
	Steps         string `mapstructure:"Steps"`
	NumberOfSteps string `mapstructure:"Number of steps"`
	HowLong       string `mapstructure:"How long did this take?"`
	Tools         string `mapstructure:"Tools"`
	NumberOfTools string `mapstructure:"Number of tools"`
}

// Load reads a metadata export file, validates it, and maps it to tasks.
func Load(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}
	return Parse(data)
}

// Parse validates raw metadata JSON against the schema and maps it to
// tasks. Validation failures report every offending location.
func Parse(data []byte) ([]models.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing metadata JSON: %w", err)
	}

	if errs := validateAgainstSchema(metadataSchema, doc); len(errs) > 0 {
		return nil, fmt.Errorf("metadata failed schema validation:\n  %s", strings.Join(errs, "\n  "))
	}

	var records []record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &records,
		// Numeric "Number of steps" values appear in older exports.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("building metadata decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding metadata records: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, models.Task{
			ID:            r.TaskID,
			Question:      r.Question,
			FinalAnswer:   r.FinalAnswer,
			Steps:         r.Metadata.Steps,
			NumberOfSteps: r.Metadata.NumberOfSteps,
			Duration:      r.Metadata.HowLong,
			Tools:         r.Metadata.Tools,
			NumberOfTools: r.Metadata.NumberOfTools,
		})
	}
	return tasks, nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// TaskInserter is the subset of the store the import needs.
type TaskInserter interface {
	InsertTask(ctx context.Context, t models.Task) error
}

// Import inserts the given tasks, returning the count inserted. It stops
// at the first failure so a partial import is visible in the error.
func Import(ctx context.Context, inserter TaskInserter, tasks []models.Task) (int, error) {
	for i, t := range tasks {
		if err := inserter.InsertTask(ctx, t); err != nil {
			return i, fmt.Errorf("importing task %s: %w", t.ID, err)
		}
	}
	return len(tasks), nil
}
