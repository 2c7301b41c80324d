// Package sanitizer turns raw oracle output into an intent, tolerating
// chatter around the payload and output that was cut off mid-structure.
package sanitizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-taskbot-be/pkg/ai/intent"
)

var ErrParse = errors.New("unparseable oracle response")

// Stage reports which step of the decode chain produced the result.
type Stage string

const (
	StageDirect   Stage = "direct"
	StageRepaired Stage = "repaired"
)

type payload struct {
	Action   string                 `json:"action"`
	Entities map[string]interface{} `json:"entities"`
	Tasks    []intent.Item          `json:"tasks"`
	Notes    []intent.Item          `json:"notes"`
}

type attempt struct {
	stage   Stage
	prepare func(string) string
}

var attempts = []attempt{
	{StageDirect, func(s string) string { return s }},
	{StageRepaired, Repair},
}

// Sanitize strips code fences and narrows the text to the outer object. When
// the object was cut off (more '{' than '}' after the first brace) everything
// from the first brace is kept so Repair can close it.
func Sanitize(raw string) string {
	s := stripFences(raw)

	start := strings.Index(s, "{")
	if start == -1 {
		return s
	}
	tail := s[start:]
	if strings.Count(tail, "{") > strings.Count(tail, "}") {
		return tail
	}
	end := strings.LastIndex(tail, "}")
	return tail[:end+1]
}

// Repair closes an object truncated mid-structure. It scans outside string
// literals only: an open string is closed, a closer that skips over inner
// openers closes those first, a closer with no matching opener is dropped, and
// every opener left at the end is closed innermost first (for the usual
// truncated array inside the outer object that is ']' then '}'). A trailing
// comma before any closer is dropped. It assumes one top-level object.
func Repair(cleaned string) string {
	s := strings.TrimSpace(cleaned)

	out := make([]byte, 0, len(s)+8)
	var open []byte
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out = append(out, c)
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			open = append(open, c)
		case '}', ']':
			j := bytes.LastIndexByte(open, openerFor(c))
			if j == -1 {
				continue
			}
			for k := len(open) - 1; k > j; k-- {
				out = appendCloser(out, closerFor(open[k]))
			}
			open = open[:j]
			out = appendCloser(out, c)
			continue
		}
		out = append(out, c)
	}

	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out = append(out, '"')
	}
	for k := len(open) - 1; k >= 0; k-- {
		out = appendCloser(out, closerFor(open[k]))
	}
	return string(out)
}

func openerFor(closer byte) byte {
	if closer == ']' {
		return '['
	}
	return '{'
}

func closerFor(opener byte) byte {
	if opener == '[' {
		return ']'
	}
	return '}'
}

// appendCloser drops a dangling comma before writing c.
func appendCloser(out []byte, c byte) []byte {
	trimmed := bytes.TrimRight(out, " \t\r\n")
	if n := len(trimmed); n > 0 && trimmed[n-1] == ',' {
		out = trimmed[:n-1]
	}
	return append(out, c)
}

// Decode runs raw oracle output through sanitize, direct parse and repair.
// It fails with ErrParse when no stage yields an object with a known action.
func Decode(raw string) (*intent.Intent, Stage, error) {
	cleaned := Sanitize(raw)

	var lastErr error
	for _, a := range attempts {
		var p payload
		if err := json.Unmarshal([]byte(a.prepare(cleaned)), &p); err != nil {
			lastErr = err
			continue
		}

		action, err := intent.ParseAction(p.Action)
		if err != nil {
			return nil, a.stage, fmt.Errorf("%w: %w", ErrParse, err)
		}

		result := &intent.Intent{
			Action:   action,
			Entities: p.Entities,
			Tasks:    p.Tasks,
			Notes:    p.Notes,
		}
		result.Normalize()
		return result, a.stage, nil
	}

	return nil, StageRepaired, fmt.Errorf("%w: %v", ErrParse, lastErr)
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
