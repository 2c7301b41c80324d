package prompt

import (
	"fmt"
	"strings"

	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/utils"
)

// Preamble is the fixed instruction text sent ahead of every chunk.
var Preamble = fmt.Sprintf(preambleFormat, actionList())

const preambleFormat = `You convert a user's message into ONE JSON object for a task assistant.
Reply with JSON only, no prose, no code fences.

Shape:
{"action": "<action>", "entities": {}, "tasks": [], "notes": []}

action is exactly one of:
%s

entities may contain:
- "reference": task title or 1-based task number the user refers to
- "priority": "high" | "medium" | "low"
- "sort": "priority" | "due_date" | "alphabetical" | "created"
- "operands": [numbers], "operator": "+" | "-" | "*" | "/" | "^" | "%%"
- "duration_minutes": integer focus length

tasks and notes are arrays of {"title": "...", "description": "...", "priority": "...", "due_date": "..."}.
Put every task the user lists into tasks, one item per task, in order.
`

func actionList() string {
	actions := intent.Actions()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

const partFormat = "Part %d of %d of a longer message. Classify only this part.\n"

// AnnotationReserve is the estimated size of the largest part annotation the
// builder emits. Callers subtract it from the chunk budget.
var AnnotationReserve = utils.EstimateTokens(fmt.Sprintf(partFormat, 9999, 9999))

// Build assembles the oracle prompt for one chunk. Single-chunk messages get no
// part annotation.
func Build(chunk utils.Chunk) string {
	var sb strings.Builder
	sb.Grow(len(Preamble) + len(chunk.Text) + 64)
	sb.WriteString(Preamble)
	sb.WriteString("\n")
	if chunk.Total > 1 {
		fmt.Fprintf(&sb, partFormat, chunk.Index, chunk.Total)
	}
	sb.WriteString("Message:\n")
	sb.WriteString(chunk.Text)
	return sb.String()
}

// Overhead is the estimated size a prompt adds around the chunk text.
func Overhead() int {
	return utils.EstimateTokens(Build(utils.Chunk{Index: 1, Total: 1}))
}
