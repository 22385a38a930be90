// Package drafting writes application emails for a job. It never sends them.
package drafting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/utils"
)

const (
	resumeExcerpt   = 400
	fallbackSubject = "Application"
	maxLogLength    = 300
)

// Request carries what the email is about.
type Request struct {
	Role           string
	Company        string
	ResumeText     string
	JobDescription string
}

// Draft is an email ready to be reviewed and sent by the user.
type Draft struct {
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Contact Contact `json:"contact"`
	// Fallback is true when the reply was not valid JSON and Body holds it verbatim.
	Fallback bool `json:"fallback,omitempty"`
}

type Drafter struct {
	completer ai.Completer
	logger    *zap.Logger
}

func New(completer ai.Completer, l *zap.Logger) *Drafter {
	return &Drafter{completer: completer, logger: logger.OrNop(l)}
}

// DraftApplication asks for an application email. A completion failure yields a draft
// with the fallback subject and an empty body.
func (d *Drafter) DraftApplication(ctx context.Context, req Request) Draft {
	contact := ExtractContact(req.ResumeText)

	raw, err := ai.Call(ctx, d.completer, "draft application email", buildPrompt(req))
	if err != nil {
		d.logger.Error("drafting application email failed", zap.Error(err))
		return Draft{Subject: fallbackSubject, Contact: contact, Fallback: true}
	}

	cleaned := stripControl(raw)

	var parsed struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(ai.ExtractJSON(cleaned)), &parsed); err != nil || strings.TrimSpace(parsed.Body) == "" {
		d.logger.Warn("model returned invalid JSON, using the raw reply as body",
			zap.String("response_preview", utils.TruncateForLog(cleaned, maxLogLength)),
		)
		return Draft{Subject: fallbackSubject, Body: cleaned, Contact: contact, Fallback: true}
	}

	subject := stripControl(parsed.Subject)
	if subject == "" {
		subject = fallbackSubject
	}

	return Draft{Subject: subject, Body: stripControl(parsed.Body), Contact: contact}
}

func buildPrompt(req Request) string {
	resume := []rune(req.ResumeText)
	if len(resume) > resumeExcerpt {
		resume = resume[:resumeExcerpt]
	}

	return fmt.Sprintf(`Return ONLY JSON. No markdown.

Format:
{
 "subject": "string",
 "body": "string with \n only"
}

Generate email for applicant:
Role=%q
Company=%q
Resume=%q
JobDescription=%q
`, req.Role, req.Company, string(resume), req.JobDescription)
}

// stripControl removes control characters except newlines and tabs.
func stripControl(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s))
}
