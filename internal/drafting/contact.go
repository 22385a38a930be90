package drafting

import (
	"regexp"
	"strings"
)

var (
	phoneRe    = regexp.MustCompile(`\+?\d[\d\- ]{8,15}`)
	emailRe    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	linkedinRe = regexp.MustCompile(`https?://(www\.)?linkedin\.com/\S+`)
	githubRe   = regexp.MustCompile(`https?://(www\.)?github\.com/\S+`)
	urlRe      = regexp.MustCompile(`https?://[^\s)]+`)

	portfolioHints = []string{"portfolio", "about", "me", "resume", "projects"}
)

// Contact holds the applicant details found in a resume, used to sign the email.
type Contact struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// ExtractContact reads contact details from resume text. The first line is taken as the
// name when it has two to four words; otherwise the name is "Candidate".
func ExtractContact(resume string) Contact {
	c := Contact{Name: "Candidate"}

	trimmed := strings.TrimSpace(resume)
	first, _, _ := strings.Cut(trimmed, "\n")
	if words := len(strings.Fields(first)); words >= 2 && words <= 4 {
		c.Name = strings.TrimSpace(first)
	}

	c.Phone = strings.TrimSpace(phoneRe.FindString(resume))
	c.Email = emailRe.FindString(resume)
	c.LinkedIn = linkedinRe.FindString(resume)
	c.GitHub = githubRe.FindString(resume)

	for _, u := range urlRe.FindAllString(resume, -1) {
		if strings.Contains(u, "linkedin.com") || strings.Contains(u, "github.com") {
			continue
		}
		lower := strings.ToLower(u)
		for _, hint := range portfolioHints {
			if strings.Contains(lower, hint) {
				c.Portfolio = u
				return c
			}
		}
		if c.Portfolio == "" {
			c.Portfolio = u
		}
	}

	return c
}

// Signature renders the contact block appended to an email body.
func (c Contact) Signature() string {
	lines := []string{"Best regards,", c.Name}
	for _, v := range []string{c.Email, c.Phone, c.LinkedIn, c.GitHub, c.Portfolio} {
		if v != "" {
			lines = append(lines, v)
		}
	}
	return strings.Join(lines, "\n")
}
