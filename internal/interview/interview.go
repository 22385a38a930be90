// Package interview prepares interview questions for a job and reviews mock interviews
// through a text-completion service.
package interview

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/scoring"
	"github.com/spigell/jobhunter/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultDifficulty = "medium"
	defaultCount      = 5
	defaultTopic      = "General"
	failedTip         = "Failed generating interview QA"
	maxLogLength      = 300
)

// Model prefixes such as "DifficultyLevel.HARD" are reduced to the bare level.
var enumPrefixRe = regexp.MustCompile(`(?i)^difficultylevel\.`)

var validate = validator.New()

// Request describes the interview to prepare for.
type Request struct {
	JobTitle       string `validate:"required"`
	JobDescription string
	Difficulty     string `validate:"omitempty,oneof=easy medium hard"`
	Count          int    `validate:"gte=0,lte=30"`
}

// Question is a single interview question with what a good answer covers.
type Question struct {
	Topic                string   `json:"topic"`
	Question             string   `json:"question"`
	Difficulty           string   `json:"difficulty"`
	ExpectedAnswerPoints []string `json:"expected_answer_points"`
	FollowUps            []string `json:"follow_ups"`
}

// QuestionSet is the generated interview preparation. Error is set when generation
// failed and the set only carries the failure tip.
type QuestionSet struct {
	JobTitle        string     `json:"job_title"`
	Questions       []Question `json:"questions"`
	PreparationTips []string   `json:"preparation_tips"`
	Error           string     `json:"error,omitempty"`
}

type Generator struct {
	completer ai.Completer
	logger    *zap.Logger
}

func New(completer ai.Completer, l *zap.Logger) *Generator {
	return &Generator{completer: completer, logger: logger.OrNop(l)}
}

// Generate asks for questions. Only an invalid request is an error; completion failures
// produce an empty set with Error filled in.
func (g *Generator) Generate(ctx context.Context, req Request) (*QuestionSet, error) {
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
	if err := validate.Struct(req); err != nil {
		return nil, &scoring.InvalidInputError{Field: "interview request", Reason: err.Error()}
	}
	if req.Difficulty == "" {
		req.Difficulty = defaultDifficulty
	}
	if req.Count == 0 {
		req.Count = defaultCount
	}

	raw, err := ai.Call(ctx, g.completer, "generate interview questions", buildPrompt(req))
	if err != nil {
		return g.failed(req, err, ""), nil
	}

	set, err := parse(raw, req)
	if err != nil {
		return g.failed(req, &ai.ExternalServiceError{Op: "parse interview questions", Err: err}, raw), nil
	}

	g.logger.Info("interview questions generated",
		zap.String("job_title", set.JobTitle),
		zap.Int("questions", len(set.Questions)),
	)
	return set, nil
}

func (g *Generator) failed(req Request, err error, raw string) *QuestionSet {
	g.logger.Error("interview question generation failed",
		zap.String("job_title", req.JobTitle),
		zap.Error(err),
		zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
	)

	return &QuestionSet{
		JobTitle:        req.JobTitle,
		Questions:       []Question{},
		PreparationTips: []string{failedTip},
		Error:           err.Error(),
	}
}

func buildPrompt(req Request) string {
	return strings.NewReplacer(
		"{{JOB_TITLE}}", req.JobTitle,
		"{{DIFFICULTY}}", req.Difficulty,
		"{{COUNT}}", strconv.Itoa(req.Count),
		"{{JOB_DESCRIPTION}}", req.JobDescription,
	).Replace(promptTemplate)
}

func parse(raw string, req Request) (*QuestionSet, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return nil, err
	}

	items, ok := data["questions"].([]any)
	if !ok {
		return nil, fmt.Errorf("questions list is missing")
	}

	set := &QuestionSet{
		JobTitle:        ai.CoerceString(data["job_title"]),
		Questions:       make([]Question, 0, len(items)),
		PreparationTips: ai.CoerceStrings(data["preparation_tips"]),
	}
	if set.JobTitle == "" {
		set.JobTitle = req.JobTitle
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		q := Question{
			Topic:                ai.CoerceString(obj["topic"]),
			Question:             ai.CoerceString(obj["question"]),
			Difficulty:           strings.ToLower(enumPrefixRe.ReplaceAllString(ai.CoerceString(obj["difficulty"]), "")),
			ExpectedAnswerPoints: ai.CoerceStrings(obj["expected_answer_points"]),
			FollowUps:            ai.CoerceStrings(obj["follow_ups"]),
		}
		if q.Question == "" {
			continue
		}
		if q.Topic == "" {
			q.Topic = defaultTopic
		}
		if q.Difficulty == "" {
			q.Difficulty = req.Difficulty
		}
		set.Questions = append(set.Questions, q)
	}

	return set, nil
}
