// Package intent holds the structured result of classifying a user message.
package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput    = errors.New("empty input")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is the closed set of things a message can ask for.
type Action string

const (
	ActionDeleteTask     Action = "delete_task"
	ActionCompleteTask   Action = "complete_task"
	ActionUpdatePriority Action = "update_priority"
	ActionCreateTask     Action = "create_task"
	ActionCreateNote     Action = "create_note"
	ActionShowUrgent     Action = "show_urgent"
	ActionFocus          Action = "focus"
	ActionListTasks      Action = "list_tasks"
	ActionListNotes      Action = "list_notes"
	ActionMath           Action = "math"
	ActionHelp           Action = "help"
	ActionSmallTalk      Action = "small_talk"
	ActionUnknown        Action = "unknown"
)

// highest rank first
var actionOrder = []Action{
	ActionDeleteTask,
	ActionCompleteTask,
	ActionUpdatePriority,
	ActionCreateTask,
	ActionCreateNote,
	ActionShowUrgent,
	ActionFocus,
	ActionListTasks,
	ActionListNotes,
	ActionMath,
	ActionHelp,
	ActionSmallTalk,
	ActionUnknown,
}

var actionRank = func() map[Action]int {
	m := make(map[Action]int, len(actionOrder))
	for i, a := range actionOrder {
		m[a] = len(actionOrder) - i
	}
	return m
}()

// Oracle spellings seen in the wild.
var actionAliases = map[string]Action{
	"add_task":        ActionCreateTask,
	"new_task":        ActionCreateTask,
	"task":            ActionCreateTask,
	"remove_task":     ActionDeleteTask,
	"done_task":       ActionCompleteTask,
	"finish_task":     ActionCompleteTask,
	"set_priority":    ActionUpdatePriority,
	"change_priority": ActionUpdatePriority,
	"priority":        ActionUpdatePriority,
	"add_note":        ActionCreateNote,
	"note":            ActionCreateNote,
	"urgent":          ActionShowUrgent,
	"show_tasks":      ActionListTasks,
	"show_notes":      ActionListNotes,
	"calculate":       ActionMath,
	"greeting":        ActionSmallTalk,
	"chat":            ActionSmallTalk,
	"smalltalk":       ActionSmallTalk,
}

// Actions returns the enumeration ordered from highest to lowest rank.
func Actions() []Action {
	out := make([]Action, len(actionOrder))
	copy(out, actionOrder)
	return out
}

// Rank orders actions for fusion; zero means the action is not in the enumeration.
func (a Action) Rank() int {
	return actionRank[a]
}

func (a Action) Valid() bool {
	return a.Rank() > 0
}

// ParseAction maps a free-form action string onto the enumeration.
func ParseAction(s string) (Action, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)

	if a := Action(key); a.Valid() {
		return a, nil
	}
	if a, ok := actionAliases[key]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Entity keys.
const (
	EntityReference = "reference"
	EntityPriority  = "priority"
	EntitySort      = "sort"
	EntityOperands  = "operands"
	EntityOperator  = "operator"
	EntityDuration  = "duration_minutes"
)

// Sort directives.
const (
	SortPriority     = "priority"
	SortDueDate      = "due_date"
	SortAlphabetical = "alphabetical"
	SortCreated      = "created"
)

// Priority levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Item is a task or note to be created.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// UnmarshalJSON also accepts a bare string, which becomes the title.
func (it *Item) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		*it = Item{Title: title}
		return nil
	}

	type plain Item
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Intent is one classified user action.
type Intent struct {
	Action   Action                 `json:"action"`
	Entities map[string]interface{} `json:"entities"`
	Tasks    []Item                 `json:"tasks"`
	Notes    []Item                 `json:"notes"`
	RawText  string                 `json:"raw_text"`
	Overflow []Item                 `json:"overflow,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Degraded bool                   `json:"degraded,omitempty"`
}

func New(action Action, rawText string) *Intent {
	return &Intent{
		Action:   action,
		Entities: make(map[string]interface{}),
		Tasks:    []Item{},
		Notes:    []Item{},
		RawText:  rawText,
	}
}

// Normalize drops empty entity values and cleans up well-known ones.
// Absent and null are the same thing.
func (i *Intent) Normalize() {
	if i.Entities == nil {
		i.Entities = make(map[string]interface{})
	}
	if i.Tasks == nil {
		i.Tasks = []Item{}
	}
	if i.Notes == nil {
		i.Notes = []Item{}
	}

	for k, v := range i.Entities {
		if v == nil {
			delete(i.Entities, k)
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				delete(i.Entities, k)
				continue
			}
			i.Entities[k] = s
		}
	}

	if p, ok := i.Entities[EntityPriority].(string); ok {
		if level := NormalizePriority(p); level != "" {
			i.Entities[EntityPriority] = level
		}
	}
	if s, ok := i.Entities[EntitySort].(string); ok {
		if dir := NormalizeSort(s); dir != "" {
			i.Entities[EntitySort] = dir
		}
	}
}

// SortDirective returns the sort entity, or "" when none is set.
func (i *Intent) SortDirective() string {
	s, _ := i.Entities[EntitySort].(string)
	return s
}

func (i *Intent) AddWarning(w string) {
	for _, existing := range i.Warnings {
		if existing == w {
			return
		}
	}
	i.Warnings = append(i.Warnings, w)
}

func NormalizePriority(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "urgent", "critical", "important", "p1":
		return PriorityHigh
	case "medium", "normal", "mid", "p2":
		return PriorityMedium
	case "low", "minor", "p3":
		return PriorityLow
	}
	return ""
}

func NormalizeSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "priority", "importance", "urgency":
		return SortPriority
	case "due", "due_date", "deadline", "date":
		return SortDueDate
	case "alphabetical", "alpha", "name", "title", "a-z":
		return SortAlphabetical
	case "created", "created_at", "newest", "oldest", "recent":
		return SortCreated
	}
	return ""
}
