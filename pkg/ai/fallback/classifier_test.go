package fallback

import (
	"fmt"
	"strings"
	"testing"

	"ai-taskbot-be/pkg/ai/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Actions(t *testing.T) {
	tests := []struct {
		text string
		want intent.Action
	}{
		{"mark task 3 as done", intent.ActionCompleteTask},
		{"I finished buy milk", intent.ActionCompleteTask},
		{"delete task 2", intent.ActionDeleteTask},
		{"please remove the dentist appointment", intent.ActionDeleteTask},
		{"set task 1 priority to high", intent.ActionUpdatePriority},
		{"show my notes", intent.ActionListNotes},
		{"show my tasks", intent.ActionListTasks},
		{"show completed tasks", intent.ActionListTasks},
		{"sort my tasks by priority", intent.ActionListTasks},
		{"Note: the wifi password is hunter2", intent.ActionCreateNote},
		{"start a 25 minute focus session", intent.ActionFocus},
		{"what's urgent today?", intent.ActionShowUrgent},
		{"12 * 4", intent.ActionMath},
		{"3.5+2=", intent.ActionMath},
		{"12 * 3 please", intent.ActionMath},
		{"15 / 3 what is that", intent.ActionMath},
		{"2024-10-19 dentist appointment", intent.ActionCreateTask},
		{"help", intent.ActionHelp},
		{"what can you do?", intent.ActionHelp},
		{"Hello world", intent.ActionSmallTalk},
		{"thanks!", intent.ActionSmallTalk},
		{"buy milk", intent.ActionCreateTask},
		{"add urgent task call the bank", intent.ActionCreateTask},
		{"", intent.ActionUnknown},
		{"   \n\t ", intent.ActionUnknown},
	}

	c := New(DefaultMaxTitles)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := c.Classify(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Action)
			assert.True(t, got.Action.Valid())
			assert.Equal(t, tt.text, got.RawText)
		})
	}
}

func TestClassify_Entities(t *testing.T) {
	c := New(DefaultMaxTitles)

	t.Run("numeric reference", func(t *testing.T) {
		got := c.Classify("mark task 3 as done")
		assert.Equal(t, 3, got.Entities[intent.EntityReference])
	})

	t.Run("text reference", func(t *testing.T) {
		got := c.Classify("mark buy milk as done")
		assert.Equal(t, "buy milk", got.Entities[intent.EntityReference])
	})

	t.Run("priority level", func(t *testing.T) {
		got := c.Classify("change priority of call mom to urgent")
		assert.Equal(t, intent.PriorityHigh, got.Entities[intent.EntityPriority])
		assert.Equal(t, "call mom", got.Entities[intent.EntityReference])
	})

	t.Run("sort directive", func(t *testing.T) {
		got := c.Classify("show my tasks sorted by due date")
		assert.Equal(t, intent.SortDueDate, got.Entities[intent.EntitySort])
	})

	t.Run("no sort without sort language", func(t *testing.T) {
		got := c.Classify("show my tasks")
		_, ok := got.Entities[intent.EntitySort]
		assert.False(t, ok)
	})

	t.Run("focus duration in hours", func(t *testing.T) {
		got := c.Classify("focus for 2 hours")
		assert.Equal(t, 120, got.Entities[intent.EntityDuration])
	})

	t.Run("math operands", func(t *testing.T) {
		got := c.Classify("7 x 6")
		assert.Equal(t, []float64{7, 6}, got.Entities[intent.EntityOperands])
		assert.Equal(t, "*", got.Entities[intent.EntityOperator])
	})

	t.Run("math with trailing words", func(t *testing.T) {
		got := c.Classify("12 * 3 please")
		assert.Equal(t, intent.ActionMath, got.Action)
		assert.Equal(t, []float64{12, 3}, got.Entities[intent.EntityOperands])
		assert.Equal(t, "*", got.Entities[intent.EntityOperator])
	})

	t.Run("prefixed index", func(t *testing.T) {
		got := c.Classify("done with task 2")
		assert.Equal(t, 2, got.Entities[intent.EntityReference])

		got = c.Classify("delete #4")
		assert.Equal(t, 4, got.Entities[intent.EntityReference])
	})

	t.Run("lone number is an index", func(t *testing.T) {
		got := c.Classify("delete 3")
		assert.Equal(t, 3, got.Entities[intent.EntityReference])
	})

	t.Run("number inside a title is not an index", func(t *testing.T) {
		got := c.Classify("done with the 2024 report")
		assert.Equal(t, intent.ActionCompleteTask, got.Action)
		assert.Equal(t, "2024 report", got.Entities[intent.EntityReference])
	})

	t.Run("note body", func(t *testing.T) {
		got := c.Classify("Remember that the meeting moved to Friday\nbring slides")
		require.Len(t, got.Notes, 1)
		assert.Equal(t, "the meeting moved to Friday", got.Notes[0].Title)
		assert.Equal(t, "bring slides", got.Notes[0].Description)
	})
}

func TestClassify_TaskTitles(t *testing.T) {
	c := New(DefaultMaxTitles)

	t.Run("numbered list inline", func(t *testing.T) {
		got := c.Classify("groceries 1. eggs 2. milk 3) bread")
		assert.Equal(t, []intent.Item{{Title: "eggs"}, {Title: "milk"}, {Title: "bread"}}, got.Tasks)
	})

	t.Run("numbered list lines", func(t *testing.T) {
		got := c.Classify("1. write report\n2. remind me to call mom\n")
		assert.Equal(t, []intent.Item{{Title: "write report"}, {Title: "call mom"}}, got.Tasks)
	})

	t.Run("lines", func(t *testing.T) {
		got := c.Classify("add buy milk\n\n- walk the dog\n* pay rent")
		assert.Equal(t, []intent.Item{{Title: "buy milk"}, {Title: "walk the dog"}, {Title: "pay rent"}}, got.Tasks)
	})

	t.Run("capped", func(t *testing.T) {
		var lines []string
		for i := 0; i < 80; i++ {
			lines = append(lines, fmt.Sprintf("errand %d", i))
		}
		got := c.Classify(strings.Join(lines, "\n"))
		assert.Equal(t, intent.ActionCreateTask, got.Action)
		assert.Len(t, got.Tasks, DefaultMaxTitles)
		assert.Equal(t, "errand 49", got.Tasks[49].Title)
	})

	t.Run("custom cap", func(t *testing.T) {
		got := New(2).Classify("a1\nb2\nc3")
		assert.Len(t, got.Tasks, 2)
	})
}

func TestParseLexicon_Errors(t *testing.T) {
	_, err := ParseLexicon([]byte("rules:\n  - action: fly\n    keywords: [x]\n"))
	assert.ErrorIs(t, err, intent.ErrUnknownAction)

	_, err = ParseLexicon([]byte("rules:\n  - action: help\n"))
	assert.Error(t, err)

	_, err = ParseLexicon([]byte("rules: ["))
	assert.Error(t, err)
}

func TestNewWithLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte("rules:\n  - action: focus\n    keywords: [zen]\n"))
	require.NoError(t, err)

	c := NewWithLexicon(lex, 0)
	assert.Equal(t, intent.ActionFocus, c.Classify("zen mode please").Action)
	assert.Equal(t, intent.ActionCreateTask, c.Classify("delete everything").Action)
}
