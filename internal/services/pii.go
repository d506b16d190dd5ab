package services

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns/pii_patterns.yaml
var defaultPIIPatterns []byte

// PIIMatcher pairs a category label with the pattern that detects it and the token
// that replaces every match.
type PIIMatcher struct {
	Label   string
	Token   string
	Pattern *regexp.Regexp
}

// RedactionResult is sanitized text plus the categories found, in matcher order.
type RedactionResult struct {
	Text       string
	Categories []string
}

// Redacted reports whether anything was replaced.
func (r RedactionResult) Redacted() bool {
	return len(r.Categories) > 0
}

// Redactor strips PII from free text. Detection is regex based and therefore a
// heuristic: it can miss unusual formats and can flag digit runs that are not PII.
type Redactor struct {
	matchers []PIIMatcher
}

type piiPatternFile struct {
	Patterns []piiPatternEntry `yaml:"patterns"`
}

type piiPatternEntry struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Regex       string `yaml:"regex"`
	Token       string `yaml:"token"`
}

// NewRedactor builds a Redactor from the embedded pattern file.
func NewRedactor() (*Redactor, error) {
	return LoadRedactor(defaultPIIPatterns)
}

// LoadRedactor builds a Redactor from a YAML pattern document.
func LoadRedactor(data []byte) (*Redactor, error) {
	var file piiPatternFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal PII patterns: %w", err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("PII pattern file has no patterns")
	}

	matchers := make([]PIIMatcher, 0, len(file.Patterns))
	for _, entry := range file.Patterns {
		label := strings.TrimSpace(entry.Label)
		if label == "" {
			return nil, fmt.Errorf("PII pattern %q has no label", entry.Regex)
		}
		re, err := regexp.Compile(entry.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile PII pattern %s: %w", label, err)
		}
		matchers = append(matchers, PIIMatcher{Label: label, Token: entry.Token, Pattern: re})
	}
	return NewRedactorFromMatchers(matchers)
}

// NewRedactorFromMatchers builds a Redactor from an explicit ordered matcher list.
func NewRedactorFromMatchers(matchers []PIIMatcher) (*Redactor, error) {
	seen := make(map[string]bool, len(matchers))
	out := make([]PIIMatcher, 0, len(matchers))
	for _, m := range matchers {
		if m.Pattern == nil {
			return nil, fmt.Errorf("PII matcher %q has no pattern", m.Label)
		}
		if seen[m.Label] {
			return nil, fmt.Errorf("duplicate PII label %q", m.Label)
		}
		seen[m.Label] = true
		if m.Token == "" {
			m.Token = DefaultRedactionToken(m.Label)
		}
		out = append(out, m)
	}
	return &Redactor{matchers: out}, nil
}

// DefaultRedactionToken is the placeholder used for a label with no explicit token.
func DefaultRedactionToken(label string) string {
	return "[" + strings.ToUpper(label) + "_REDACTED]"
}

// Labels returns the configured categories in application order.
func (r *Redactor) Labels() []string {
	labels := make([]string, len(r.matchers))
	for i, m := range r.matchers {
		labels[i] = m.Label
	}
	return labels
}

// Redact applies every matcher in order to the progressively redacted text. A
// category is reported once no matter how many occurrences were replaced.
func (r *Redactor) Redact(text string) RedactionResult {
	result := RedactionResult{Text: text}
	for _, m := range r.matchers {
		if !m.Pattern.MatchString(result.Text) {
			continue
		}
		result.Categories = append(result.Categories, m.Label)
		result.Text = m.Pattern.ReplaceAllLiteralString(result.Text, m.Token)
	}
	return result
}
