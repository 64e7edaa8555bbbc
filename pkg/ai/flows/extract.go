package flows

import (
	"context"
	"fmt"
	"strings"

	"cv-forge/internal/domain"
	"cv-forge/internal/model"
)

const extractPrompt = `You are an expert CV parser. You will receive the text content of a CV file and must extract structured information from it.

File Name: %s
CV Content:
%s

EXTRACTION GUIDELINES:
- Personal information: name, title, email, phone, LinkedIn, GitHub, address and website. Use an empty string for anything missing.
- Experience: one entry per job with ids "exp1", "exp2", ... Dates as "MMM YYYY", "Present" for current positions. Preserve bullet points in descriptions.
- Education: ids "edu1", "edu2", ... Graduation dates as "YYYY" or "YYYY-YYYY".
- Skills: individual skills, no duplicates.
- Qualifications: certifications and licenses with ids "qual1", "qual2", ..., dates, names and issuers.
- Summary: extract the professional summary if present.

Do not invent or assume information that is not present.

Respond with ONLY a JSON object {"cvData": <cv>} where <cv> conforms to this JSON Schema. No code fences, no commentary.

JSON-SCHEMA:
%s`

// ExtractCV structures the plain text of an uploaded CV.
func (a *Assistant) ExtractCV(ctx context.Context, fileName, text string) (model.CV, error) {
	if strings.TrimSpace(text) == "" {
		return model.CV{}, domain.InvalidInput("file content is empty")
	}
	prompt := fmt.Sprintf(extractPrompt, strings.TrimSpace(fileName), text, model.Schema())

	raw, err := a.generate(ctx, "extract-cv", prompt, nil)
	if err != nil {
		return model.CV{}, err
	}
	return decodeCV("extract-cv", raw, "cvData")
}
