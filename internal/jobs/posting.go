// Package jobs merges job postings from many sources into one deduplicated list and
// ranks them against a candidate's skills.
package jobs

import "strings"

// Posting is a single job advertisement as reported by a source.
type Posting struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	SalaryRange  *string  `json:"salary_range,omitempty"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Source       string   `json:"source"`
	URL          *string  `json:"url,omitempty"`
	// MatchScore is set only by Rank.
	MatchScore *float64 `json:"match_score,omitempty"`
}

// SearchParams describe what the user is looking for. Fetchers use what they support
// and ignore the rest.
type SearchParams struct {
	Query     string `json:"query" validate:"required"`
	Location  string `json:"location,omitempty"`
	SalaryMin *int   `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax *int   `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	JobType   string `json:"job_type,omitempty"`
}

// Key identifies a posting for deduplication: title and company, case-insensitive.
func (p Posting) Key() string {
	return strings.ToLower(p.Title + p.Company)
}

// normalize trims text fields, drops empty optional values and blank requirements and
// fills in the source name when the fetcher left it out.
func normalize(p Posting, source string) Posting {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	p.Description = strings.TrimSpace(p.Description)
	p.SalaryRange = trimOptional(p.SalaryRange)
	p.URL = trimOptional(p.URL)
	p.MatchScore = nil

	reqs := make([]string, 0, len(p.Requirements))
	for _, r := range p.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	p.Requirements = reqs

	if strings.TrimSpace(p.Source) == "" {
		p.Source = source
	}

	return p
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	return trimOptional(&s)
}
