package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/scoring"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	var prompt string
	c := ai.CompleterFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n" + `{
  "job_title": "Go Developer",
  "questions": [
    {"topic": "Concurrency", "question": "How do channels work?", "difficulty": "DifficultyLevel.HARD",
     "expected_answer_points": ["buffered", "unbuffered"], "follow_ups": ["select?"]},
    {"question": "Why Go?"},
    {"topic": "Empty"}
  ],
  "preparation_tips": ["Review the runtime"]
}` + "\n```", nil
	})

	set, err := New(c, nil).Generate(context.Background(), Request{JobTitle: "Go Developer", JobDescription: "Build APIs", Count: 2})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Generate 2 questions")
	assert.Contains(t, prompt, "Build APIs")
	assert.Contains(t, prompt, `"difficulty": "medium"`)

	assert.Empty(t, set.Error)
	require.Len(t, set.Questions, 2)
	assert.Equal(t, "hard", set.Questions[0].Difficulty)
	assert.Equal(t, []string{"buffered", "unbuffered"}, set.Questions[0].ExpectedAnswerPoints)
	assert.Equal(t, "General", set.Questions[1].Topic)
	assert.Equal(t, "medium", set.Questions[1].Difficulty)
	assert.Empty(t, set.Questions[1].FollowUps)
	assert.Equal(t, []string{"Review the runtime"}, set.PreparationTips)
}

func TestGenerateFallback(t *testing.T) {
	t.Parallel()

	cases := map[string]ai.Completer{
		"service error": ai.CompleterFunc(func(context.Context, string) (string, error) { return "", errors.New("timeout") }),
		"bad json":      ai.CompleterFunc(func(context.Context, string) (string, error) { return "sorry", nil }),
		"no completer":  nil,
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			set, err := New(c, nil).Generate(context.Background(), Request{JobTitle: "Analyst"})
			require.NoError(t, err)
			assert.Equal(t, "Analyst", set.JobTitle)
			assert.Empty(t, set.Questions)
			assert.Equal(t, []string{failedTip}, set.PreparationTips)
			assert.NotEmpty(t, set.Error)
		})
	}
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	g := New(nil, nil)

	_, err := g.Generate(context.Background(), Request{JobTitle: "  "})
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)

	_, err = g.Generate(context.Background(), Request{JobTitle: "Analyst", Difficulty: "impossible"})
	assert.ErrorIs(t, err, scoring.ErrInvalidInput)
}
