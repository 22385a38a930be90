package scoring

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Subscore names as they appear in Report.Subscores.
const (
	SkillMatch    = "skill_match"
	Experience    = "experience"
	Education     = "education"
	Certification = "certification"
	Projects      = "projects"
	Impact        = "impact"
	Formatting    = "formatting"
)

// SubscoreNames lists every subscore in blend order.
var SubscoreNames = []string{SkillMatch, Experience, Education, Certification, Projects, Impact, Formatting}

// Weights are the blend coefficients of the deterministic score. They must sum to 1.
type Weights struct {
	SkillMatch    float64 `mapstructure:"skill-match" validate:"gte=0,lte=1"`
	Experience    float64 `mapstructure:"experience" validate:"gte=0,lte=1"`
	Education     float64 `mapstructure:"education" validate:"gte=0,lte=1"`
	Certification float64 `mapstructure:"certification" validate:"gte=0,lte=1"`
	Projects      float64 `mapstructure:"projects" validate:"gte=0,lte=1"`
	Impact        float64 `mapstructure:"impact" validate:"gte=0,lte=1"`
	Formatting    float64 `mapstructure:"formatting" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the reference coefficients 0.30/0.20/0.10×5.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:    0.30,
		Experience:    0.20,
		Education:     0.10,
		Certification: 0.10,
		Projects:      0.10,
		Impact:        0.10,
		Formatting:    0.10,
	}
}

func (w Weights) byName() map[string]float64 {
	return map[string]float64{
		SkillMatch:    w.SkillMatch,
		Experience:    w.Experience,
		Education:     w.Education,
		Certification: w.Certification,
		Projects:      w.Projects,
		Impact:        w.Impact,
		Formatting:    w.Formatting,
	}
}

// Sum returns the total of all coefficients.
func (w Weights) Sum() float64 {
	return w.SkillMatch + w.Experience + w.Education + w.Certification + w.Projects + w.Impact + w.Formatting
}

// Config carries every tunable of the scorer.
type Config struct {
	// MinResumeLength is the minimum number of non-space-trimmed characters a resume needs.
	MinResumeLength int `mapstructure:"min-resume-length" validate:"gte=1"`
	// FuzzyThreshold is the partial-match score a JD keyword needs to count as matched.
	FuzzyThreshold float64 `mapstructure:"fuzzy-threshold" validate:"gte=0,lte=100"`
	// MinKeywordLength is the shortest JD token considered a keyword.
	MinKeywordLength int `mapstructure:"min-keyword-length" validate:"gte=1"`
	// KeywordFloor is the skill_match score used when nothing matched.
	KeywordFloor float64 `mapstructure:"keyword-floor" validate:"gte=0,lte=100"`
	// MaxKeywords caps both the matched and the missing keyword lists.
	MaxKeywords int `mapstructure:"max-keywords" validate:"gte=0"`
	// JudgmentResumeChars bounds the resume prefix sent to the completion service.
	JudgmentResumeChars int `mapstructure:"judgment-resume-chars" validate:"gte=1"`
	// FallbackRating stands in for the external judgment when it is unavailable.
	FallbackRating float64 `mapstructure:"fallback-rating" validate:"gte=0,lte=100"`
	// DeterministicShare is the weight of the deterministic score in the final blend;
	// the external rating receives the remainder.
	DeterministicShare float64 `mapstructure:"deterministic-share" validate:"gte=0,lte=1"`

	Weights Weights `mapstructure:"weights"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		MinResumeLength:     50,
		FuzzyThreshold:      65,
		MinKeywordLength:    4,
		KeywordFloor:        20,
		MaxKeywords:         80,
		JudgmentResumeChars: 5500,
		FallbackRating:      50,
		DeterministicShare:  0.6,
		Weights:             DefaultWeights(),
	}
}

var validate = validator.New()

// Validate checks ranges and that the blend weights sum to 1.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("invalid scoring config: weights sum to %.4f, expected 1", sum)
	}
	return nil
}
