package fallback

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"ai-taskbot-be/pkg/ai/intent"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

type lexiconFile struct {
	Rules []ruleSpec `yaml:"rules"`
	Sort  struct {
		Triggers []string `yaml:"triggers"`
		Keys     []struct {
			Directive string   `yaml:"directive"`
			Words     []string `yaml:"words"`
		} `yaml:"keys"`
	} `yaml:"sort"`
	CreatePrefixes []string `yaml:"create_prefixes"`
	Fillers        []string `yaml:"fillers"`
}

type ruleSpec struct {
	Action   string   `yaml:"action"`
	Keywords []string `yaml:"keywords"`
	Pattern  string   `yaml:"pattern"`
	Requires []string `yaml:"requires"`
	Excludes []string `yaml:"excludes"`
	MaxWords int      `yaml:"max_words"`
}

type rule struct {
	action   intent.Action
	keywords *regexp.Regexp
	pattern  *regexp.Regexp
	requires *regexp.Regexp
	excludes *regexp.Regexp
	maxWords int
}

type sortKey struct {
	directive string
	words     *regexp.Regexp
}

// Lexicon is the compiled form of a rules file.
type Lexicon struct {
	rules          []rule
	sortTriggers   *regexp.Regexp
	sortKeys       []sortKey
	createPrefixes []string
	fillers        map[string]bool
}

// ParseLexicon compiles a YAML rules file.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	lex := &Lexicon{
		sortTriggers: phraseRegexp(f.Sort.Triggers),
		fillers:      make(map[string]bool, len(f.Fillers)),
	}

	for _, spec := range f.Rules {
		action, err := intent.ParseAction(spec.Action)
		if err != nil {
			return nil, fmt.Errorf("lexicon rule: %w", err)
		}
		r := rule{
			action:   action,
			keywords: phraseRegexp(spec.Keywords),
			requires: phraseRegexp(spec.Requires),
			excludes: phraseRegexp(spec.Excludes),
			maxWords: spec.MaxWords,
		}
		if spec.Pattern != "" {
			if r.pattern, err = regexp.Compile(spec.Pattern); err != nil {
				return nil, fmt.Errorf("lexicon rule %s: %w", spec.Action, err)
			}
		}
		if r.keywords == nil && r.pattern == nil {
			return nil, fmt.Errorf("lexicon rule %s: needs keywords or a pattern", spec.Action)
		}
		lex.rules = append(lex.rules, r)
	}

	for _, k := range f.Sort.Keys {
		if dir := intent.NormalizeSort(k.Directive); dir != "" {
			lex.sortKeys = append(lex.sortKeys, sortKey{directive: dir, words: phraseRegexp(k.Words)})
		}
	}

	for _, p := range f.CreatePrefixes {
		lex.createPrefixes = append(lex.createPrefixes, strings.ToLower(p))
	}
	for _, w := range f.Fillers {
		lex.fillers[strings.ToLower(w)] = true
	}

	return lex, nil
}

func mustParseLexicon(data []byte) *Lexicon {
	lex, err := ParseLexicon(data)
	if err != nil {
		panic(err)
	}
	return lex
}

// phraseRegexp matches any of the phrases as whole words, case-insensitively.
// Returns nil for an empty list.
func phraseRegexp(phrases []string) *regexp.Regexp {
	if len(phrases) == 0 {
		return nil
	}
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(p))
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}

func (r rule) matches(lower string, words int) bool {
	hit := (r.keywords != nil && r.keywords.MatchString(lower)) ||
		(r.pattern != nil && r.pattern.MatchString(lower))
	if !hit {
		return false
	}
	if r.requires != nil && !r.requires.MatchString(lower) {
		return false
	}
	if r.excludes != nil && r.excludes.MatchString(lower) {
		return false
	}
	return r.maxWords == 0 || words <= r.maxWords
}
