package scoring

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/jobhunter/internal/ai"
)

//go:embed judgment_prompt.md
var judgmentPrompt string

//go:embed verdict.schema.json
var verdictSchema string

var verdictSchemaLoader = gojsonschema.NewStringLoader(verdictSchema)

const generalProfile = "General Profile / Any Role"

// JudgmentKind tags how the external rating in a report was obtained.
type JudgmentKind string

const (
	// JudgmentOK means the completion service returned a usable verdict.
	JudgmentOK JudgmentKind = "ok"
	// JudgmentFallback means the neutral default was used; Reason says why.
	JudgmentFallback JudgmentKind = "fallback"
)

// Verdict is the structured semantic-fit judgment.
type Verdict struct {
	Summary            string   `json:"summary"`
	KeyStrengths       []string `json:"key_strengths"`
	ImprovementsNeeded []string `json:"improvements_needed"`
	KeywordsToAdd      []string `json:"keywords_to_add"`
	FinalHireRating    float64  `json:"final_hire_rating"`
}

// Judgment is either Ok(Verdict) or Fallback(Reason).
type Judgment struct {
	Kind    JudgmentKind `json:"kind"`
	Verdict Verdict      `json:"verdict"`
	Reason  string       `json:"reason,omitempty"`
}

// OK reports whether the verdict came from the completion service.
func (j Judgment) OK() bool { return j.Kind == JudgmentOK }

// Rating is the hire rating used in the final blend.
func (j Judgment) Rating() float64 { return j.Verdict.FinalHireRating }

func okJudgment(v Verdict) Judgment {
	return Judgment{Kind: JudgmentOK, Verdict: v}
}

func fallbackJudgment(rating float64, err error) Judgment {
	return Judgment{
		Kind: JudgmentFallback,
		Verdict: Verdict{
			KeyStrengths:       []string{},
			ImprovementsNeeded: []string{},
			KeywordsToAdd:      []string{},
			FinalHireRating:    rating,
		},
		Reason: err.Error(),
	}
}

func buildJudgmentPrompt(resume, jd string, maxResumeChars int) string {
	runes := []rune(resume)
	if len(runes) > maxResumeChars {
		resume = string(runes[:maxResumeChars])
	}

	// Single pass: placeholders inside the resume or JD stay literal.
	return strings.NewReplacer("{{RESUME}}", resume, "{{JOB_DESCRIPTION}}", jd).Replace(judgmentPrompt)
}

// judge asks the completion service for a verdict. Every failure collapses into a
// fallback judgment carrying the configured neutral rating.
func (s *Scorer) judge(ctx context.Context, resume, jd string) (Judgment, string) {
	prompt := buildJudgmentPrompt(resume, jd, s.cfg.JudgmentResumeChars)

	raw, err := ai.Call(ctx, s.completer, "judge resume", prompt)
	if err != nil {
		return fallbackJudgment(s.cfg.FallbackRating, err), ""
	}

	verdict, err := parseVerdict(raw)
	if err != nil {
		return fallbackJudgment(s.cfg.FallbackRating, &ai.ExternalServiceError{Op: "parse verdict", Err: err}), raw
	}

	return okJudgment(verdict), raw
}

func parseVerdict(raw string) (Verdict, error) {
	cleaned := ai.ExtractJSON(raw)
	if cleaned == "" {
		return Verdict{}, errors.New("empty response")
	}

	result, err := gojsonschema.Validate(verdictSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return Verdict{}, fmt.Errorf("verdict does not match schema: %s", strings.Join(issues, "; "))
	}

	data, err := ai.DecodeObject(cleaned)
	if err != nil {
		return Verdict{}, err
	}

	rating := ai.CoerceFloat(data["final_hire_rating"])
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return Verdict{}, fmt.Errorf("final_hire_rating is not a number: %v", data["final_hire_rating"])
	}

	return Verdict{
		Summary:            ai.CoerceString(data["summary"]),
		KeyStrengths:       ai.CoerceStrings(data["key_strengths"]),
		ImprovementsNeeded: ai.CoerceStrings(data["improvements_needed"]),
		KeywordsToAdd:      ai.CoerceStrings(data["keywords_to_add"]),
		FinalHireRating:    math.Max(0, math.Min(100, rating)),
	}, nil
}
