package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsJobTitleChangeRequested(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		want        bool
	}{
		{"empty", "", false},
		{"verb before noun", "please adapt job titles for a marketing role", true},
		{"noun before verb", "my job title should change to Staff Engineer", true},
		{"position", "update the position names", true},
		{"role", "Transform this CV for a product ROLE", true},
		{"adjust", "adjust my roles to sound more senior", true},
		{"modify", "Modify job title wording", true},
		{"no intent", "make it punchier", false},
		{"noun without verb", "highlight my role in the migration", false},
		{"verb without noun", "change the tone to be more formal", false},
		{"across newline", "change the summary\nand keep my role", false},
		// known false negative of the lexical heuristic
		{"switch focus", "switch my focus from Backend Developer to Frontend Developer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJobTitleChangeRequested(tt.instruction))
		})
	}
}
