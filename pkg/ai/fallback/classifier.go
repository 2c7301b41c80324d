// Package fallback classifies messages with ordered keyword rules. It never
// calls the oracle and is used whenever the oracle's answer can't be trusted.
package fallback

import (
	"regexp"
	"strconv"
	"strings"

	"ai-taskbot-be/pkg/ai/intent"
)

// DefaultMaxTitles bounds how many task titles a single message can produce.
const DefaultMaxTitles = 50

var (
	defaultLexicon = mustParseLexicon(defaultLexiconYAML)

	numberedMarker = regexp.MustCompile(`(?:^|\s)\d{1,3}[.)]\s+`)
	listBullet     = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,3}[.)])\s+`)
	referenceIndex = regexp.MustCompile(`(?:#\s*|\bno\.?\s*|\bnumber\s+|\btask\s+|\bitem\s+)(\d{1,4})\b`)
	priorityWord   = regexp.MustCompile(`(?i)\b(high|medium|low|urgent|critical|normal|minor|p[123])\b`)
	durationExpr   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)
	mathExpr       = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*([-+*/x×÷^%])\s*(-?\d+(?:\.\d+)?)`)
	punctuation    = strings.NewReplacer("?", "", "!", "", ",", "", ":", "", ";", "")
)

// Classifier is safe for concurrent use.
type Classifier struct {
	lex       *Lexicon
	maxTitles int
}

// New returns a classifier over the built-in lexicon.
func New(maxTitles int) *Classifier {
	return NewWithLexicon(defaultLexicon, maxTitles)
}

func NewWithLexicon(lex *Lexicon, maxTitles int) *Classifier {
	if maxTitles <= 0 {
		maxTitles = DefaultMaxTitles
	}
	return &Classifier{lex: lex, maxTitles: maxTitles}
}

// Classify always returns an intent with an action from the enumeration.
// Blank text is unknown; text no rule claims becomes create_task.
func (c *Classifier) Classify(text string) (result *intent.Intent) {
	defer func() {
		if recover() != nil {
			result = intent.New(intent.ActionUnknown, text)
		}
	}()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return intent.New(intent.ActionUnknown, text)
	}

	lower := strings.ToLower(trimmed)
	words := len(strings.Fields(lower))

	for _, r := range c.lex.rules {
		if r.matches(lower, words) {
			result = intent.New(r.action, text)
			c.extract(result, r, trimmed, lower)
			return result
		}
	}

	result = intent.New(intent.ActionCreateTask, text)
	for _, title := range c.taskTitles(trimmed) {
		result.Tasks = append(result.Tasks, intent.Item{Title: title})
	}
	if len(result.Tasks) == 0 {
		result.Action = intent.ActionUnknown
	}
	return result
}

func (c *Classifier) extract(in *intent.Intent, r rule, trimmed, lower string) {
	switch in.Action {
	case intent.ActionCompleteTask, intent.ActionDeleteTask:
		c.setReference(in, r, lower)

	case intent.ActionUpdatePriority:
		c.setReference(in, r, lower)
		if m := priorityWord.FindStringSubmatch(lower); m != nil {
			in.Entities[intent.EntityPriority] = intent.NormalizePriority(m[1])
		}

	case intent.ActionListTasks:
		if dir := c.sortDirective(lower); dir != "" {
			in.Entities[intent.EntitySort] = dir
		}
		if m := priorityWord.FindStringSubmatch(lower); m != nil {
			in.Entities[intent.EntityPriority] = intent.NormalizePriority(m[1])
		}

	case intent.ActionCreateNote:
		body := strings.TrimSpace(strings.TrimLeft(removeFirst(r.keywords, trimmed), " :-"))
		if body == "" {
			return
		}
		title, rest, _ := strings.Cut(body, "\n")
		in.Notes = append(in.Notes, intent.Item{
			Title:       strings.TrimSpace(title),
			Description: strings.TrimSpace(rest),
		})

	case intent.ActionFocus:
		if m := durationExpr.FindStringSubmatch(lower); m != nil {
			n, _ := strconv.Atoi(m[1])
			if strings.HasPrefix(m[2], "h") {
				n *= 60
			}
			in.Entities[intent.EntityDuration] = n
		}

	case intent.ActionMath:
		if m := mathExpr.FindStringSubmatch(lower); m != nil {
			a, _ := strconv.ParseFloat(m[1], 64)
			b, _ := strconv.ParseFloat(m[3], 64)
			in.Entities[intent.EntityOperands] = []float64{a, b}
			in.Entities[intent.EntityOperator] = normalizeOperator(m[2])
		}
	}
}

// setReference prefers an explicit index ("task 3", "#2") and otherwise keeps
// whatever is left once the rule's keywords and filler words are removed. A
// number only counts as an index when it is prefixed or stands alone.
func (c *Classifier) setReference(in *intent.Intent, r rule, lower string) {
	if m := referenceIndex.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			in.Entities[intent.EntityReference] = n
			return
		}
	}

	rest := r.keywords.ReplaceAllString(lower, " ")
	if r.requires != nil {
		rest = r.requires.ReplaceAllString(rest, " ")
	}
	rest = priorityWord.ReplaceAllString(rest, " ")

	var kept []string
	for _, w := range strings.Fields(punctuation.Replace(rest)) {
		if !c.lex.fillers[w] {
			kept = append(kept, w)
		}
	}
	switch {
	case len(kept) == 1:
		// a lone number ("delete 3") is an index; "the 2024 report" is not
		if n, err := strconv.Atoi(kept[0]); err == nil && n > 0 && n < 10000 {
			in.Entities[intent.EntityReference] = n
			return
		}
		in.Entities[intent.EntityReference] = kept[0]
	case len(kept) > 1:
		in.Entities[intent.EntityReference] = strings.Join(kept, " ")
	}
}

func (c *Classifier) sortDirective(lower string) string {
	if c.lex.sortTriggers == nil || !c.lex.sortTriggers.MatchString(lower) {
		return ""
	}
	for _, k := range c.lex.sortKeys {
		if k.words != nil && k.words.MatchString(lower) {
			return k.directive
		}
	}
	return ""
}

// taskTitles finds numbered-list items ("1. foo 2) bar"); without at least
// two markers every non-blank line is a title. At most maxTitles are returned.
func (c *Classifier) taskTitles(text string) []string {
	var candidates []string

	if locs := numberedMarker.FindAllStringIndex(text, -1); len(locs) >= 2 {
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			candidates = append(candidates, text[loc[1]:end])
		}
	} else {
		candidates = strings.Split(text, "\n")
	}

	titles := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		title := c.cleanTitle(cand)
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == c.maxTitles {
			break
		}
	}
	return titles
}

func (c *Classifier) cleanTitle(s string) string {
	s = listBullet.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	lower := strings.ToLower(s)
	for _, p := range c.lex.createPrefixes {
		if strings.HasPrefix(lower, p+" ") || (strings.HasSuffix(p, ":") && strings.HasPrefix(lower, p)) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}

	return strings.TrimSpace(strings.TrimRight(s, " ,;"))
}

func removeFirst(re *regexp.Regexp, s string) string {
	if re == nil {
		return s
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + " " + s[loc[1]:]
}

func normalizeOperator(op string) string {
	switch op {
	case "x", "×":
		return "*"
	case "÷":
		return "/"
	}
	return op
}
