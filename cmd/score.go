package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/resume"
	"github.com/spigell/jobhunter/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .md, .pdf or .docx)")
	scoreCmd.Flags().String("jd", "", "job description text; empty scores against a general profile")
	scoreCmd.Flags().String("jd-file", "", "file with the job description")

	scoreCmd.MarkFlagRequired("resume")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup(cmd.Name())

	resumeText, err := resume.LoadText(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	jd, err := readTextArg(cmd.Flag("jd").Value.String(), cmd.Flag("jd-file").Value.String())
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	completer := completerOrNil(ctx, config.AI, true, logger)

	scorer, err := scoring.New(completer, config.Scoring, logger)
	if err != nil {
		logger.Fatal("creating a scorer", zap.Error(err))
	}

	report, err := scorer.Score(ctx, resumeText, jd)
	if err != nil {
		var invalid *scoring.InvalidInputError
		if errors.As(err, &invalid) {
			logger.Fatal("resume cannot be scored", zap.String("field", invalid.Field), zap.String("reason", invalid.Reason))
		}
		logger.Fatal("scoring resume", zap.Error(err))
	}

	if err := printJSON(report); err != nil {
		logger.Fatal("printing report", zap.Error(err))
	}
}
