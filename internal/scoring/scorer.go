// Package scoring rates how well a resume fits a job description. A deterministic
// blend of keyword and heuristic subscores is combined with a semantic judgment from a
// text-completion service; when that service fails the neutral fallback rating is used.
package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/utils"
)

const maxLogLength = 300

// Report is the result of a single Score call.
type Report struct {
	ID                 string             `json:"id"`
	Subscores          map[string]float64 `json:"subscores"`
	DeterministicScore float64            `json:"final_deterministic_score"`
	MatchedKeywords    []string           `json:"matched_keywords"`
	MissingKeywords    []string           `json:"missing_keywords"`
	Judgment           Judgment           `json:"judgment"`
	ExternalScore      *float64           `json:"external_score"`
	FinalScore         float64            `json:"final_score"`
	GeneralProfile     bool               `json:"general_profile"`
}

// Scorer produces resume score reports.
type Scorer struct {
	completer ai.Completer
	cfg       Config
	logger    *zap.Logger
}

// New validates cfg and builds a scorer. A nil completer is allowed: every report then
// carries a fallback judgment.
func New(completer ai.Completer, cfg Config, l *zap.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Scorer{
		completer: completer,
		cfg:       cfg,
		logger:    logger.OrNop(l),
	}, nil
}

// Config returns the configuration the scorer was built with.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score rates resume against jd. Only an unusable resume is reported as an error;
// completion failures degrade to the fallback rating.
func (s *Scorer) Score(ctx context.Context, resume, jd string) (*Report, error) {
	trimmed := strings.TrimSpace(resume)
	if n := len([]rune(trimmed)); n < s.cfg.MinResumeLength {
		return nil, &InvalidInputError{
			Field:  "resume",
			Reason: fmt.Sprintf("text has %d characters, at least %d required", n, s.cfg.MinResumeLength),
		}
	}

	report := &Report{ID: uuid.NewString()}
	log := s.logger.With(zap.String(logger.FieldScoreID, report.ID))

	jd = strings.TrimSpace(jd)
	if jd == "" {
		report.GeneralProfile = true
		jd = generalProfile
		log.Debug("job description is blank, scoring against a general profile")
	}

	keywords := s.matchKeywords(trimmed, jd)
	report.Subscores = s.subscores(trimmed, keywords.score)
	report.MatchedKeywords = keywords.matched
	report.MissingKeywords = keywords.missing
	report.DeterministicScore = utils.Round2(Blend(report.Subscores, s.cfg.Weights))

	log.Debug("deterministic scoring finished",
		zap.Float64("deterministic_score", report.DeterministicScore),
		zap.Int("matched_keywords", len(report.MatchedKeywords)),
		zap.Int("missing_keywords", len(report.MissingKeywords)),
	)

	judgment, raw := s.judge(ctx, trimmed, jd)
	report.Judgment = judgment
	if judgment.OK() {
		rating := judgment.Rating()
		report.ExternalScore = &rating
	} else {
		log.Warn("semantic judgment unavailable, using fallback rating",
			zap.String("reason", judgment.Reason),
			zap.Float64("fallback_rating", judgment.Rating()),
			zap.String("response_preview", utils.TruncateForLog(raw, maxLogLength)),
		)
	}

	share := s.cfg.DeterministicShare
	report.FinalScore = utils.Round2(utils.Clamp(share*report.DeterministicScore+(1-share)*judgment.Rating(), 0, 100))

	log.Info("resume scored",
		zap.Float64("final_score", report.FinalScore),
		zap.String("judgment", string(judgment.Kind)),
		zap.Bool("general_profile", report.GeneralProfile),
	)

	return report, nil
}

func (s *Scorer) subscores(resume string, skillMatch float64) map[string]float64 {
	lower := strings.ToLower(resume)
	raw := map[string]float64{
		SkillMatch:    skillMatch,
		Experience:    experienceScore(lower),
		Education:     educationScore(lower),
		Certification: certificationScore(lower),
		Projects:      projectsScore(lower),
		Impact:        impactScore(lower),
		Formatting:    formattingScore(resume, lower),
	}

	out := make(map[string]float64, len(raw))
	for name, v := range raw {
		out[name] = utils.Round2(utils.Clamp(v, 0, 100))
	}
	return out
}

// Blend is the weighted sum of subscores, clamped to [0,100]. Missing subscores count as 0.
func Blend(subscores map[string]float64, w Weights) float64 {
	weights := w.byName()

	var total float64
	for _, name := range SubscoreNames {
		total += weights[name] * subscores[name]
	}
	return utils.Clamp(total, 0, 100)
}
