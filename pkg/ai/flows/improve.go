package flows

import (
	"context"
	"fmt"
	"strings"

	"cv-forge/internal/domain"
)

// ImproveText rewrites a single piece of CV text for impact.
func (a *Assistant) ImproveText(ctx context.Context, text, instruction string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.InvalidInput("text is required")
	}

	var b strings.Builder
	b.WriteString("You are an expert CV writer. You will receive a section of text from a CV, and you will improve the phrasing and word choice to make it more impactful.\n\n")
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		fmt.Fprintf(&b, "Specific Instructions: %s\n\n", instruction)
	}
	fmt.Fprintf(&b, "Text: %s\n\n", text)
	b.WriteString(`Respond with ONLY a JSON object of the form {"improvedText": "..."}. Do not include code fences or commentary.`)

	var out struct {
		ImprovedText string `json:"improvedText"`
	}
	if _, err := a.generate(ctx, "improve-text", b.String(), &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.ImprovedText) == "" {
		return "", fmt.Errorf("improve-text: %w: empty improvedText", domain.ErrAIOutput)
	}
	return out.ImprovedText, nil
}
