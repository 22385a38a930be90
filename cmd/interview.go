package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/interview"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Generate interview questions for a role",
	Run: func(cmd *cobra.Command, _ []string) {
		prepareInterview(cmd)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Review a finished mock interview",
	Run: func(cmd *cobra.Command, _ []string) {
		analyzeInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("title", "t", "", "job title")
	interviewCmd.Flags().String("jd", "", "job description text")
	interviewCmd.Flags().String("jd-file", "", "file with the job description")
	interviewCmd.Flags().String("difficulty", "medium", "easy, medium or hard")
	interviewCmd.Flags().IntP("count", "n", 5, "number of questions")

	interviewCmd.MarkFlagRequired("title")

	interviewCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("conversation", "", "interview transcript text")
	analyzeCmd.Flags().String("conversation-file", "", "file with the interview transcript")
	analyzeCmd.Flags().String("role", "", "role the interview was for")
	analyzeCmd.Flags().String("company", "", "company the interview was with")
}

func prepareInterview(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup(cmd.Name())

	jd, err := readTextArg(cmd.Flag("jd").Value.String(), cmd.Flag("jd-file").Value.String())
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	count, _ := cmd.Flags().GetInt("count")

	generator := interview.New(completerOrNil(ctx, config.AI, true, logger), logger)
	set, err := generator.Generate(ctx, interview.Request{
		JobTitle:       cmd.Flag("title").Value.String(),
		JobDescription: jd,
		Difficulty:     cmd.Flag("difficulty").Value.String(),
		Count:          count,
	})
	if err != nil {
		logger.Fatal("invalid interview request", zap.Error(err))
	}

	if err := printJSON(set); err != nil {
		logger.Fatal("printing questions", zap.Error(err))
	}
}

func analyzeInterview(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup(cmd.Name())

	conversation, err := readTextArg(cmd.Flag("conversation").Value.String(), cmd.Flag("conversation-file").Value.String())
	if err != nil {
		logger.Fatal("loading conversation", zap.Error(err))
	}

	generator := interview.New(completerOrNil(ctx, config.AI, true, logger), logger)
	analysis, err := generator.Analyze(ctx, interview.AnalysisRequest{
		Conversation: conversation,
		Role:         cmd.Flag("role").Value.String(),
		Company:      cmd.Flag("company").Value.String(),
	})
	if err != nil {
		logger.Fatal("invalid analysis request", zap.Error(err))
	}

	if err := printJSON(analysis); err != nil {
		logger.Fatal("printing analysis", zap.Error(err))
	}
}
