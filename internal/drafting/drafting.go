// Package drafting writes cover letters and outreach messages with the LLM.
package drafting

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/job-assistant/internal/llm"
	"github.com/jonathan/job-assistant/internal/prompts"
)

// Limits applied to prompts and outputs.
const (
	CoverLetterJDChars   = 2000
	CoverLetterMaxTokens = 500
	OutreachJDChars      = 500
	OutreachMaxChars     = 300
	OutreachMaxTokens    = 150
	defaultRecipientName = "there"
)

// Error wraps a failed generation.
type Error struct {
	Kind  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to generate %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Drafter generates prose for a job.
type Drafter struct {
	client llm.Client
	tier   llm.ModelTier
}

// New creates a Drafter using the standard model tier.
func New(client llm.Client) *Drafter {
	return &Drafter{client: client, tier: llm.TierStandard}
}

// CoverLetterInput describes the job a letter is written for.
type CoverLetterInput struct {
	Company        string
	Role           string
	JobDescription string
}

// CoverLetterTemplate returns the fixed letter skeleton with company and role filled in.
// The remaining {MissionWhyMe}, {SkillFromInternship} and {CallToAction} slots are
// left for the model.
func CoverLetterTemplate(company, role string) (string, error) {
	return prompts.Render(prompts.DraftingFile, "cover-letter-template", map[string]string{
		"Company": company,
		"Role":    role,
	})
}

// CoverLetter fills the cover letter template for the job.
func (d *Drafter) CoverLetter(ctx context.Context, in CoverLetterInput) (string, error) {
	template, err := CoverLetterTemplate(in.Company, in.Role)
	if err != nil {
		return "", err
	}
	prompt, err := prompts.Render(prompts.DraftingFile, "cover-letter", map[string]string{
		"Template":       template,
		"JobDescription": llm.Truncate(in.JobDescription, CoverLetterJDChars),
	})
	if err != nil {
		return "", err
	}

	text, err := d.client.Generate(ctx, llm.Request{
		Prompt:          prompt,
		Tier:            d.tier,
		Temperature:     llm.DraftingTemperature,
		MaxOutputTokens: CoverLetterMaxTokens,
	})
	if err != nil {
		return "", &Error{Kind: "cover letter", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// OutreachInput describes the recipient and, optionally, the job.
type OutreachInput struct {
	Name           string
	Role           string
	JobTitle       string
	Company        string
	JobDescription string
}

// outreachContext renders the job and role lines given to the model.
func outreachContext(in OutreachInput) string {
	var lines []string
	if in.JobTitle != "" || in.Company != "" {
		lines = append(lines, fmt.Sprintf("Job: %s at %s", in.JobTitle, in.Company))
	}
	if in.JobDescription != "" {
		lines = append(lines, "Job Description: "+llm.Truncate(in.JobDescription, OutreachJDChars))
	}
	if in.Role != "" {
		lines = append(lines, "Contact's Role: "+in.Role)
	}
	return strings.Join(lines, "\n")
}

// OutreachDM writes a short LinkedIn message. The result is always under
// OutreachMaxChars characters.
func (d *Drafter) OutreachDM(ctx context.Context, in OutreachInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultRecipientName
	}
	prompt, err := prompts.Render(prompts.DraftingFile, "outreach-dm", map[string]string{
		"Recipient": name,
		"Context":   outreachContext(in),
		"MaxChars":  fmt.Sprint(OutreachMaxChars),
	})
	if err != nil {
		return "", err
	}

	text, err := d.client.Generate(ctx, llm.Request{
		Prompt:          prompt,
		Tier:            d.tier,
		Temperature:     llm.DraftingTemperature,
		MaxOutputTokens: OutreachMaxTokens,
	})
	if err != nil {
		return "", &Error{Kind: "outreach message", Cause: err}
	}
	return ClampMessage(strings.TrimSpace(text), OutreachMaxChars-1), nil
}

// ClampMessage shortens text to at most limit runes, cutting at the last
// sentence end or, failing that, the last word boundary.
func ClampMessage(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := runes[:limit]

	for i := len(cut) - 1; i > limit/2; i-- {
		if (cut[i] == '.' || cut[i] == '!' || cut[i] == '?') && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			return string(cut[:i+1])
		}
	}
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			return strings.TrimRightFunc(string(cut[:i]), unicode.IsSpace)
		}
	}
	return string(cut)
}
