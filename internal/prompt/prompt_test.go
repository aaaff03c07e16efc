package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskeval/evalboard/internal/models"
)

func TestTaskLabel(t *testing.T) {
	label := taskLabel(models.Task{ID: "t1", Question: "What  is\nthe total?"})
	assert.Equal(t, "t1: What is the total?", label)
}

func TestTaskLabelTruncatesLongQuestions(t *testing.T) {
	long := strings.Repeat("word ", 40)
	label := taskLabel(models.Task{ID: "t1", Question: long})
	assert.True(t, strings.HasSuffix(label, "…"))
	assert.Less(t, len([]rune(label)), 80)
}
