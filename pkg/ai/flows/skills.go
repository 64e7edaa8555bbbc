package flows

import (
	"context"
	"fmt"
	"strings"
)

const skillsPrompt = `You are an expert career advisor and skills analyst. Suggest relevant skills based on the provided information.

Input Information:
- Target Role: %s
- Existing Skills: %s
- Custom Prompt: %s

Guidelines:
- With a role, suggest skills essential for it that complement the existing skills.
- Without a role, infer the career direction from the existing skills and suggest complementary ones.
- With a custom prompt, focus on skills that address it.
- Never repeat a skill from the existing list.
- Keep suggestions concise, practical and demonstrable, mixing hard and soft skills.

Respond with ONLY a JSON object {"suggestedSkills": ["..."]}. No code fences, no commentary.`

// SuggestSkills proposes skills to add. Suggestions already present in
// existing, compared case-insensitively, are dropped.
func (a *Assistant) SuggestSkills(ctx context.Context, role string, existing []string, instruction string) ([]string, error) {
	prompt := fmt.Sprintf(skillsPrompt, strings.TrimSpace(role), strings.Join(existing, ", "), strings.TrimSpace(instruction))

	var out struct {
		SuggestedSkills []string `json:"suggestedSkills"`
	}
	if _, err := a.generate(ctx, "suggest-skills", prompt, &out); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing)+len(out.SuggestedSkills))
	for _, s := range existing {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}
	skills := []string{}
	for _, s := range out.SuggestedSkills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	return skills, nil
}
