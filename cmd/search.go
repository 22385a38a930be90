package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/drafting"
	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/resume"
	"github.com/spigell/jobhunter/internal/scoring"
)

const (
	PromptShow                = "Show postings"
	PromptExit                = "Exit"
	PromptBack                = "back"
	PromptReportByCompanies   = "Report by companies"
	PromptDraftApplication    = "Draft an application email"
	PromptAppendToExcludeFile = "Append all postings to exclude file"
	PromptPostingsToFile      = "Dump postings to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShow, PromptReportByCompanies, PromptDraftApplication, PromptPostingsToFile, PromptAppendToExcludeFile, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs across all configured sources",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "job title or keywords")
	searchCmd.Flags().StringP("location", "l", "", "city, country or Remote")
	searchCmd.Flags().Int("salary-min", 0, "minimum expected salary, 0 is unset")
	searchCmd.Flags().Int("salary-max", 0, "maximum expected salary, 0 is unset")
	searchCmd.Flags().String("job-type", "", "full-time, part-time, contract or internship")
	searchCmd.Flags().StringP("skills", "s", "", "comma separated skills used for ranking")
	searchCmd.Flags().StringP("resume", "r", "", "resume file; used for ranking skills and the resume fit filter")
	searchCmd.Flags().BoolP("yes", "y", false, "print the result and exit without the interactive menu")
	searchCmd.Flags().StringP("exclude-file", "e", "", "special file with postings to exclude. Default is unset.")

	searchCmd.MarkFlagRequired("query")
	viper.BindPFlag("exclude-file", searchCmd.Flags().Lookup("exclude-file"))
}

// session is the state the interactive menu works on.
type session struct {
	logger      *zap.Logger
	drafter     *drafting.Drafter
	resumeText  string
	excludeFile string
	postings    []jobs.Posting
	reports     map[string]*scoring.Report
}

func search(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup(cmd.Name())

	params, err := searchParams(cmd)
	if err != nil {
		logger.Fatal("invalid search parameters", zap.Error(err))
	}

	var resumeText string
	if path := cmd.Flag("resume").Value.String(); path != "" {
		resumeText, err = resume.LoadText(path)
		if err != nil {
			logger.Fatal("loading resume", zap.Error(err))
		}
	}

	skills := resume.ParseSkills(cmd.Flag("skills").Value.String())
	if len(skills) == 0 && resumeText != "" {
		skills = resume.ExtractSkills(resumeText)
		logger.Info("skills taken from resume", zap.Strings("skills", skills))
	}

	fetchers := buildFetchers(config, logger)
	if len(fetchers) == 0 {
		logger.Fatal("no job sources enabled")
	}

	logger.Info("starting the search", zap.String("query", params.Query), zap.String("location", params.Location))

	postings, report := jobs.NewAggregator(fetchers, config.Search, logger).SearchWithReport(ctx, params)
	for _, src := range report.Sources {
		if src.Failed() {
			logger.Warn("source returned nothing", zap.String("source", src.Name), zap.Error(src.Err))
		}
	}

	if len(postings) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	postings = jobs.NewRanker(logger).Rank(postings, skills)

	var completer ai.Completer
	if resumeText != "" {
		completer = completerOrNil(ctx, config.AI, true, logger)
	}

	postings, reports := applyFilters(ctx, config, params, resumeText, completer, postings, logger)
	if len(postings) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	s := &session{
		logger:      logger,
		drafter:     drafting.New(completer, logger),
		resumeText:  resumeText,
		excludeFile: config.ExcludeFile,
		postings:    postings,
		reports:     reports,
	}

	if cmd.Flag("yes").Value.String() == "true" {
		if err := printJSON(s.postings); err != nil {
			logger.Fatal("printing postings", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of postings", zap.Int("count", len(s.postings)))

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func searchParams(cmd *cobra.Command) (jobs.SearchParams, error) {
	params := jobs.SearchParams{
		Query:    strings.TrimSpace(cmd.Flag("query").Value.String()),
		Location: strings.TrimSpace(cmd.Flag("location").Value.String()),
		JobType:  strings.TrimSpace(cmd.Flag("job-type").Value.String()),
	}

	if v, _ := cmd.Flags().GetInt("salary-min"); v > 0 {
		params.SalaryMin = &v
	}
	if v, _ := cmd.Flags().GetInt("salary-max"); v > 0 {
		params.SalaryMax = &v
	}

	if err := validate.Struct(params); err != nil {
		return params, err
	}
	return params, nil
}

func applyFilters(ctx context.Context, config *Config, params jobs.SearchParams, resumeText string, completer ai.Completer, postings []jobs.Posting, logger *zap.Logger) ([]jobs.Posting, map[string]*scoring.Report) {
	filterConfig := &filtering.Config{
		ExcludedCompanies: config.Filters.ExcludedCompanies,
		ExcludeFile:       config.ExcludeFile,
		SalaryMin:         params.SalaryMin,
		SalaryMax:         params.SalaryMax,
		JobType:           params.JobType,
		MinimumMatchScore: config.Filters.MinimumMatchScore,
		ResumeFit: &filtering.ResumeFitConfig{
			MinimumFitScore: config.Filters.ResumeFit.MinimumFitScore,
			MaxPostings:     config.Filters.ResumeFit.MaxPostings,
		},
	}

	deps := filtering.Deps{Logger: logger, Resume: resumeText}
	steps := filtering.DefaultSteps()

	switch {
	case !config.Filters.ResumeFit.Enabled:
		filtering.DisableByName(steps, "resume_fit", "disabled in config")
	case resumeText == "":
		filtering.DisableByName(steps, "resume_fit", "no resume given")
	default:
		scorer, err := scoring.New(completer, config.Scoring, logger)
		if err != nil {
			logger.Warn("skipping resume fit filter", zap.Error(err))
			filtering.DisableByName(steps, "resume_fit", err.Error())
			break
		}
		deps.Scorer = scorer
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.String("reason", status.Reason))
	}

	filtered, reports, err := filtering.Run(ctx, filterConfig, deps, steps, postings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	return filtered, reports
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShow:
		return printJSON(s.postings)
	case PromptReportByCompanies:
		return printJSON(jobs.ReportByCompany(s.postings))
	case PromptDraftApplication:
		return s.draftLoop(ctx)
	case PromptPostingsToFile:
		filename, err := jobs.DumpToTmpFile(s.postings)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) appendToExcludeFile() error {
	if s.excludeFile == "" {
		s.logger.Warn("exclude file is not configured", zap.String("hint", "use --exclude-file or exclude-file in config"))
		return nil
	}

	excluded := filtering.ToExcluded(s.postings, filtering.ExcludeActorUser, "excluded from the search menu")
	if err := filtering.AppendToFile(s.excludeFile, excluded); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file", zap.String("filename", s.excludeFile), zap.Int("count", len(excluded.Items)))
	s.postings = nil
	return errExit
}

func (s *session) draftLoop(ctx context.Context) error {
	for {
		items := make([]string, 0, len(s.postings)+1)
		for i, p := range s.postings {
			items = append(items, postingLabel(i, p, s.reports[p.Key()]))
		}

		postingPrompt := promptui.Select{
			Label: "Choose a posting and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := postingPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		p := s.postings[idx]
		draft := s.drafter.DraftApplication(ctx, drafting.Request{
			Role:           p.Title,
			Company:        p.Company,
			ResumeText:     s.resumeText,
			JobDescription: p.Description,
		})

		if err := printJSON(draft); err != nil {
			return err
		}

		s.postings = jobs.Without(s.postings, p.Key())
		if len(s.postings) == 0 {
			return nil
		}
	}
}

func postingLabel(i int, p jobs.Posting, report *scoring.Report) string {
	label := fmt.Sprintf("%d %s / %s / %s", i+1, p.Title, p.Company, p.Source)
	if p.MatchScore != nil {
		label += fmt.Sprintf(" / match %.0f", *p.MatchScore)
	}
	if report != nil {
		label += fmt.Sprintf(" / fit %.0f", report.FinalScore)
	}
	return label
}
