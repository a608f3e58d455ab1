package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// NoStructureFoundError means the generator output contained nothing that
// looks like structured data: no fenced block and no opening brace anywhere.
type NoStructureFoundError struct {
	Raw string
}

func (e *NoStructureFoundError) Error() string {
	return "no structured data found in generator output"
}

// MalformedStructureError means a candidate was located but could not be
// parsed or failed mandatory field validation. Raw carries the original
// generator text for manual remediation; values are never guessed in its place.
type MalformedStructureError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *MalformedStructureError) Error() string {
	if e.Reason != "" {
		return "malformed generator output: " + e.Reason
	}
	return "malformed generator output"
}

func (e *MalformedStructureError) Unwrap() error {
	return e.Err
}

var (
	jsonFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	anyFenceRe  = regexp.MustCompile("(?s)```(.*?)```")

	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
)

// ExtractAssessment recovers a validated assessment structure from raw
// generator text. Generators wrap JSON in labeled or unlabeled fences, prepend
// commentary, and emit trailing commas; an ordered cascade of recovery
// strategies locates the candidate and two unconditional repairs fix the
// commas before parsing. Expected-shape variance comes back as a typed error,
// not a guessed object.
func ExtractAssessment(raw string) (*models.AssessmentContent, error) {
	candidate, ok := locateCandidate(raw)
	if !ok {
		return nil, &NoStructureFoundError{Raw: raw}
	}

	candidate = repairTrailingCommas(candidate)

	var content models.AssessmentContent
	decoder := json.NewDecoder(strings.NewReader(candidate))
	if err := decoder.Decode(&content); err != nil {
		return nil, &MalformedStructureError{Raw: raw, Reason: "candidate is not valid JSON", Err: err}
	}

	if reason, ok := validateContent(&content); !ok {
		return nil, &MalformedStructureError{Raw: raw, Reason: reason}
	}

	return &content, nil
}

// locateCandidate applies the recovery cascade and returns the first
// parseable-looking substring:
//  1. the interior of a fenced block explicitly labeled json,
//  2. the interior of any fenced block that starts with an opening brace,
//  3. the substring from the first opening brace to the end of the text.
func locateCandidate(raw string) (string, bool) {
	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	for _, m := range anyFenceRe.FindAllStringSubmatch(raw, -1) {
		interior := strings.TrimSpace(m[1])
		if strings.HasPrefix(interior, "{") {
			return interior, true
		}
	}

	if idx := strings.Index(raw, "{"); idx >= 0 {
		return raw[idx:], true
	}

	return "", false
}

// repairTrailingCommas removes commas immediately preceding a closing brace or
// bracket. Generators emit these routinely and strict JSON grammar rejects them.
func repairTrailingCommas(candidate string) string {
	candidate = trailingCommaObjRe.ReplaceAllString(candidate, "}")
	candidate = trailingCommaArrRe.ReplaceAllString(candidate, "]")
	return candidate
}

// validateContent checks the mandatory top-level fields. The
// emotional-confidence factor is optional and must not fail here.
func validateContent(content *models.AssessmentContent) (string, bool) {
	if strings.TrimSpace(content.StudentType) == "" {
		return "missing student_type", false
	}

	mandatory := []struct {
		name  string
		value *models.FactorEvaluation
	}{
		{"attitude", content.Attitude},
		{"self_directed", content.SelfDirected},
		{"assignment", content.Assignment},
		{"willingness", content.Willingness},
		{"sociability", content.Sociability},
		{"management", content.Management},
	}
	for _, factor := range mandatory {
		if factor.value == nil {
			return "missing factor " + factor.name, false
		}
	}

	if strings.TrimSpace(content.Overall) == "" {
		return "missing overall narrative", false
	}
	if strings.TrimSpace(content.FinalAssessment) == "" {
		return "missing final assessment", false
	}

	return "", true
}
