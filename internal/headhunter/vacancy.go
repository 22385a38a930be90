package headhunter

import (
	"fmt"
	"strings"

	"github.com/spigell/jobhunter/internal/jobs"
)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Area struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"area,omitempty"`
	Salary *struct {
		From     int    `json:"from,omitempty"`
		To       int    `json:"to,omitempty"`
		Currency string `json:"currency,omitempty"`
		Gross    bool   `json:"gross,omitempty"`
	} `json:"salary,omitempty"`
	Schedule struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"schedule,omitempty"`
	Employer struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employer,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
	Employment   struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	} `json:"employment,omitempty"`
	KeySkills []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Snipet struct {
		Requirement    string `json:"requirement,omitempty"`
		Responsibility string `json:"responsibility,omitempty"`
	} `json:"snippet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

var highlight = strings.NewReplacer("<highlighttext>", "", "</highlighttext>", "")

func (v *Vacancies) Len() int {
	return len(v.Items)
}

// SalaryText renders the salary fork, e.g. "100000-150000 RUR". Empty when unknown.
func (va *Vacancy) SalaryText() string {
	if va.Salary == nil {
		return ""
	}

	s := va.Salary
	var amount string
	switch {
	case s.From > 0 && s.To > 0:
		amount = fmt.Sprintf("%d-%d", s.From, s.To)
	case s.From > 0:
		amount = fmt.Sprintf("from %d", s.From)
	case s.To > 0:
		amount = fmt.Sprintf("up to %d", s.To)
	default:
		return ""
	}

	return strings.TrimSpace(amount + " " + s.Currency)
}

// Posting converts the vacancy into a generic job posting.
func (va *Vacancy) Posting() jobs.Posting {
	requirements := make([]string, 0, len(va.KeySkills)+1)
	for _, skill := range va.KeySkills {
		requirements = append(requirements, skill.Name)
	}
	if req := highlight.Replace(va.Snipet.Requirement); strings.TrimSpace(req) != "" {
		requirements = append(requirements, req)
	}

	description := strings.TrimSpace(strings.Join([]string{
		highlight.Replace(va.Snipet.Responsibility),
		highlight.Replace(va.Snipet.Requirement),
		va.Employment.Name,
		va.Schedule.Name,
	}, " "))

	return jobs.Posting{
		Title:        va.Name,
		Company:      va.Employer.Name,
		Location:     va.Area.Name,
		SalaryRange:  jobs.StringPtr(va.SalaryText()),
		Description:  strings.Join(strings.Fields(description), " "),
		Requirements: requirements,
		Source:       Name,
		URL:          jobs.StringPtr(va.AlternateURL),
	}
}
