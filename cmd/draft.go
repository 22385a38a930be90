package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/drafting"
	"github.com/spigell/jobhunter/internal/resume"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft an application email; nothing is sent",
	Run: func(cmd *cobra.Command, _ []string) {
		draft(cmd)
	},
}

func init() {
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .md, .pdf or .docx)")
	draftCmd.Flags().String("role", "", "role applied for")
	draftCmd.Flags().String("company", "", "company name")
	draftCmd.Flags().String("jd", "", "job description text")
	draftCmd.Flags().String("jd-file", "", "file with the job description")

	draftCmd.MarkFlagRequired("resume")
	draftCmd.MarkFlagRequired("role")
	draftCmd.MarkFlagRequired("company")
}

func draft(cmd *cobra.Command) {
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

	drafter := drafting.New(completerOrNil(ctx, config.AI, true, logger), logger)
	result := drafter.DraftApplication(ctx, drafting.Request{
		Role:           cmd.Flag("role").Value.String(),
		Company:        cmd.Flag("company").Value.String(),
		ResumeText:     resumeText,
		JobDescription: jd,
	})

	if err := printJSON(result); err != nil {
		logger.Fatal("printing draft", zap.Error(err))
	}
}
