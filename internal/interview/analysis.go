package interview

import (
	"context"
	_ "embed"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/scoring"
	"github.com/spigell/jobhunter/internal/utils"
)

//go:embed analysis_prompt.md
var analysisPromptTemplate string

const (
	defaultPerformanceScore = 75
	defaultOverallFeedback  = "Good interview performance."
	defaultRole             = "the role"
	defaultCompany          = "the company"
)

var (
	defaultStrengths    = []string{"Good communication"}
	defaultImprovements = []string{"Practice more"}
)

// AnalysisRequest is a finished mock interview to review.
type AnalysisRequest struct {
	Conversation string `validate:"required"`
	Role         string
	Company      string
}

// Analysis is the review of a mock interview. Fallback marks the fixed review returned
// when the completion service could not produce one.
type Analysis struct {
	PerformanceScore float64  `json:"performance_score"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	OverallFeedback  string   `json:"overall_feedback"`
	Fallback         bool     `json:"fallback,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// fallbackAnalysis is returned whenever the reply is unusable.
func fallbackAnalysis(err error) *Analysis {
	return &Analysis{
		PerformanceScore: defaultPerformanceScore,
		Strengths:        []string{"Good communication", "Relevant experience"},
		Improvements:     []string{"More specific examples", "Technical depth"},
		OverallFeedback:  "Solid interview. Keep practicing for stronger technical responses.",
		Fallback:         true,
		Error:            err.Error(),
	}
}

// Analyze reviews a mock interview. An empty conversation is an error; completion
// failures produce the fallback review.
func (g *Generator) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	req.Conversation = strings.TrimSpace(req.Conversation)
	if err := validate.Struct(req); err != nil {
		return nil, &scoring.InvalidInputError{Field: "conversation", Reason: "no conversation to analyze"}
	}

	raw, err := ai.Call(ctx, g.completer, "analyze interview", buildAnalysisPrompt(req))
	if err != nil {
		return g.analysisFailed(req, err, ""), nil
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return g.analysisFailed(req, &ai.ExternalServiceError{Op: "parse interview analysis", Err: err}, raw), nil
	}

	g.logger.Info("interview analyzed",
		zap.String("role", req.Role),
		zap.Float64("performance_score", analysis.PerformanceScore),
	)
	return analysis, nil
}

func (g *Generator) analysisFailed(req AnalysisRequest, err error, raw string) *Analysis {
	g.logger.Error("interview analysis failed",
		zap.String("role", req.Role),
		zap.Error(err),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
	)
	return fallbackAnalysis(err)
}

func buildAnalysisPrompt(req AnalysisRequest) string {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = defaultRole
	}
	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = defaultCompany
	}

	return strings.NewReplacer(
		"{{ROLE}}", role,
		"{{COMPANY}}", company,
		"{{CONVERSATION}}", req.Conversation,
	).Replace(analysisPromptTemplate)
}

// parseAnalysis fills every missing or unreadable field with its default.
func parseAnalysis(raw string) (*Analysis, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	score := ai.CoerceFloat(data["performance_score"])
	if math.IsNaN(score) {
		score = defaultPerformanceScore
	}

	a := &Analysis{
		PerformanceScore: utils.Round2(utils.Clamp(score, 0, 100)),
		Strengths:        ai.CoerceStrings(data["strengths"]),
		Improvements:     ai.CoerceStrings(data["improvements"]),
		OverallFeedback:  ai.CoerceString(data["overall_feedback"]),
	}
	if len(a.Strengths) == 0 {
		a.Strengths = append([]string(nil), defaultStrengths...)
	}
	if len(a.Improvements) == 0 {
		a.Improvements = append([]string(nil), defaultImprovements...)
	}
	if a.OverallFeedback == "" {
		a.OverallFeedback = defaultOverallFeedback
	}

	return a, nil
}
