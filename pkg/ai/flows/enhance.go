package flows

import (
	"context"
	"fmt"
	"strings"

	"cv-forge/internal/model"
)

const enhancePrompt = `You are an expert CV writer and career consultant. You will receive a complete CV in JSON format and a specific user request for how to enhance or transform it.

Your task is to:
1. Analyze the current CV data
2. Apply the user's requested changes or improvements
3. Enhance the content to be more impactful and professional
4. Keep the same JSON structure and ensure consistency across all sections

User Request: %s

Current CV Data:
%s

DO NOT MODIFY THESE FIELDS:
- personalInfo: name, email, phone, linkedin, github, website, address
- experience[]: id, company, location, startDate, endDate
- experience[].jobTitle, unless the user explicitly asks to change job titles
- education[]: id, degree, institution, location, graduationDate
- qualifications[]: id, date, name, issuer

FIELDS YOU CAN ENHANCE:
- personalInfo.title, only for a requested career change
- summary
- experience[].description, with action verbs and quantifiable achievements
- education[].description, only if present
- skills[], optimized for relevance to the request

Do not invent information. If a field is empty, leave it empty.

Respond with ONLY a JSON object {"enhancedCvData": <cv>} where <cv> conforms to this JSON Schema. No code fences, no commentary.

JSON-SCHEMA:
%s`

// EnhanceCV asks for a rewrite of the whole CV. The result is only checked
// for shape; callers reconcile it against the original.
func (a *Assistant) EnhanceCV(ctx context.Context, cv model.CV, instruction string) (model.CV, error) {
	if instruction = strings.TrimSpace(instruction); instruction == "" {
		instruction = DefaultInstruction
	}
	prompt := fmt.Sprintf(enhancePrompt, instruction, mustJSON(cv), model.Schema())

	raw, err := a.generate(ctx, "enhance-cv", prompt, nil)
	if err != nil {
		return model.CV{}, err
	}
	return decodeCV("enhance-cv", raw, "enhancedCvData")
}
