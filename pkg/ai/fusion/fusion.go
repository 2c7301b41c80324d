// Package fusion combines the per-chunk intents of a split message into one.
package fusion

import (
	"errors"
	"fmt"
	"strings"

	"ai-taskbot-be/pkg/ai/intent"
)

// DefaultOverflowCap is the number of tasks kept for immediate use.
const DefaultOverflowCap = 20

var ErrFusionInputEmpty = errors.New("no intent produced")

// MergeState accumulates chunk intents in order.
type MergeState struct {
	action   intent.Action
	seen     bool
	entities map[string]interface{}
	tasks    []intent.Item
	notes    []intent.Item
	overflow []intent.Item
	raw      strings.Builder
	warnings []string
	degraded bool
}

func NewMergeState() *MergeState {
	return &MergeState{
		entities: make(map[string]interface{}),
		tasks:    []intent.Item{},
		notes:    []intent.Item{},
	}
}

// Add folds the next chunk's intent into the state.
func (m *MergeState) Add(in *intent.Intent) {
	if in == nil {
		return
	}

	action := in.Action
	if !action.Valid() {
		action = intent.ActionUnknown
	}
	if !m.seen || action.Rank() > m.action.Rank() {
		m.action = action
		m.seen = true
	}

	for k, v := range in.Entities {
		if v == nil {
			continue
		}
		if k == intent.EntitySort {
			if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
		}
		m.entities[k] = v
	}

	m.tasks = append(m.tasks, in.Tasks...)
	m.notes = append(m.notes, in.Notes...)
	m.overflow = append(m.overflow, in.Overflow...)
	m.raw.WriteString(in.RawText)
	m.warnings = append(m.warnings, in.Warnings...)
	m.degraded = m.degraded || in.Degraded
}

// Result applies the overflow cap and returns the fused intent.
func (m *MergeState) Result(overflowCap int) *intent.Intent {
	if overflowCap <= 0 {
		overflowCap = DefaultOverflowCap
	}

	out := intent.New(m.action, m.raw.String())
	out.Entities = m.entities
	out.Notes = m.notes
	out.Degraded = m.degraded
	for _, w := range m.warnings {
		out.AddWarning(w)
	}

	out.Tasks = m.tasks
	var queued []intent.Item
	if len(m.tasks) > overflowCap {
		out.Tasks = m.tasks[:overflowCap:overflowCap]
		queued = append(queued, m.tasks[overflowCap:]...)
	}
	queued = append(queued, m.overflow...)
	if len(queued) > 0 {
		out.Overflow = queued
		out.AddWarning(fmt.Sprintf("%d more task(s) were queued; only the first %d were added now", len(queued), overflowCap))
	}
	return out
}

// Fuse merges chunk intents in chunk order. A single intent is returned as is.
func Fuse(intents []*intent.Intent, overflowCap int) (*intent.Intent, error) {
	switch len(intents) {
	case 0:
		return nil, ErrFusionInputEmpty
	case 1:
		if intents[0] == nil {
			return nil, ErrFusionInputEmpty
		}
		return intents[0], nil
	}

	m := NewMergeState()
	for _, in := range intents {
		m.Add(in)
	}
	if !m.seen {
		return nil, ErrFusionInputEmpty
	}
	return m.Result(overflowCap), nil
}
