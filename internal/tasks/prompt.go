package tasks

import "fmt"

// ComposePrompt builds the model input from the solution steps, the task
// question, and the concatenated extracted file text. The extracted
// section is omitted entirely when no text was produced.
func ComposePrompt(steps, question, extracted string) string {
	prompt := fmt.Sprintf("Steps:\n%s\n\nQuestion:\n%s\n", steps, question)
	if extracted != "" {
		prompt += fmt.Sprintf("\nExtracted Text:\n%s", extracted)
	}
	return prompt
}
