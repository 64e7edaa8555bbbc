package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cv-forge/internal/adapter/repository"
	"cv-forge/internal/domain"
	"cv-forge/internal/model"
	"cv-forge/internal/reconcile"
	"cv-forge/pkg/ai/flows"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	enhanced     model.CV
	extracted    model.CV
	improved     string
	skills       []string
	err          error
	instructions []string
}

func (f *fakeAssistant) ImproveText(_ context.Context, _, instruction string) (string, error) {
	f.instructions = append(f.instructions, instruction)
	return f.improved, f.err
}

func (f *fakeAssistant) EnhanceCV(_ context.Context, _ model.CV, instruction string) (model.CV, error) {
	f.instructions = append(f.instructions, instruction)
	return f.enhanced, f.err
}

func (f *fakeAssistant) SuggestSkills(_ context.Context, _ string, _ []string, instruction string) ([]string, error) {
	f.instructions = append(f.instructions, instruction)
	return f.skills, f.err
}

func (f *fakeAssistant) ExtractCV(_ context.Context, _, _ string) (model.CV, error) {
	return f.extracted, f.err
}

type fakeRenderer struct {
	outputs [][]byte
	errs    []error
	calls   int
	html    string
}

func (f *fakeRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	i := f.calls
	f.calls++
	f.html = html
	var out []byte
	var err error
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

func sampleCV() model.CV {
	cv := model.DefaultCV()
	cv.PersonalInfo.Name = "Jane Doe"
	cv.PersonalInfo.Title = "Backend Developer"
	cv.Experience[0].JobTitle = "Backend Developer"
	cv.Experience[0].Company = "Acme"
	cv.Experience[0].Location = "London"
	return cv
}

func newTestProcessor(a Assistant, r Renderer, opts ...Option) *Processor {
	return NewProcessor(a, r, repository.NewMemoryStore(), nil, opts...)
}

func TestEnhanceCV_ReconcilesRewrite(t *testing.T) {
	orig := sampleCV()
	rewrite := orig.Clone()
	rewrite.PersonalInfo.Name = "J. Doe"
	rewrite.Experience[0].Company = "Acme Corp"
	rewrite.Experience[0].JobTitle = "Frontend Developer"
	rewrite.Experience[0].Description = "- Shipped a design system used by 12 teams"
	rewrite.Summary = "Frontend developer."

	a := &fakeAssistant{enhanced: rewrite}
	res, err := newTestProcessor(a, nil).EnhanceCV(context.Background(), orig, "make it punchier")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", res.CV.PersonalInfo.Name)
	assert.Equal(t, "Acme", res.CV.Experience[0].Company)
	assert.Equal(t, "Backend Developer", res.CV.Experience[0].JobTitle)
	assert.Equal(t, rewrite.Experience[0].Description, res.CV.Experience[0].Description)
	assert.Equal(t, "Frontend developer.", res.CV.Summary)
	assert.Equal(t, []string{
		"personalInfo.name",
		"experience[0].jobTitle",
		"experience[0].company",
	}, res.ModifiedFields)
}

func TestEnhanceCV_TitleChangeAllowed(t *testing.T) {
	orig := sampleCV()
	rewrite := orig.Clone()
	rewrite.Experience[0].JobTitle = "Frontend Developer"

	res, err := newTestProcessor(&fakeAssistant{enhanced: rewrite}, nil).
		EnhanceCV(context.Background(), orig, "change my role to Frontend Developer")
	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", res.CV.Experience[0].JobTitle)
	assert.Empty(t, res.ModifiedFields)
}

func TestEnhanceCV_DefaultInstruction(t *testing.T) {
	a := &fakeAssistant{enhanced: sampleCV()}
	_, err := newTestProcessor(a, nil).EnhanceCV(context.Background(), sampleCV(), "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{flows.DefaultInstruction}, a.instructions)
}

func TestEnhanceCV_FailureKeepsOriginal(t *testing.T) {
	orig := sampleCV()
	a := &fakeAssistant{err: domain.ErrAIUnavailable}

	res, err := newTestProcessor(a, nil).EnhanceCV(context.Background(), orig, "")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
	assert.Equal(t, orig, res.CV)
	assert.Empty(t, res.ModifiedFields)
}

func TestReconcile_UsesConfiguredReconciler(t *testing.T) {
	orig := sampleCV()
	cand := orig.Clone()
	cand.Experience = append(cand.Experience, model.ExperienceEntry{ID: "exp9", Company: "Invented"})

	loose := newTestProcessor(nil, nil).Reconcile(orig, cand, "")
	assert.Len(t, loose.CV.Experience, 2)

	strict := newTestProcessor(nil, nil, WithReconciler(reconcile.New(reconcile.WithExtraPolicy(reconcile.DropExtra)))).
		Reconcile(orig, cand, "")
	assert.Len(t, strict.CV.Experience, 1)
}

func TestExtractCV_Normalizes(t *testing.T) {
	extracted := sampleCV()
	extracted.Experience = append(extracted.Experience, model.ExperienceEntry{JobTitle: "Intern"})
	extracted.Skills = []string{" Go ", "go", "", "SQL"}

	cv, err := newTestProcessor(&fakeAssistant{extracted: extracted}, nil).
		ExtractCV(context.Background(), "cv.txt", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "exp1", cv.Experience[0].ID)
	assert.True(t, strings.HasPrefix(cv.Experience[1].ID, "exp"))
	assert.Len(t, cv.Experience[1].ID, len("exp")+26)
	assert.Equal(t, []string{"Go", "SQL"}, cv.Skills)
}

func TestExtractCV_Errors(t *testing.T) {
	p := newTestProcessor(&fakeAssistant{err: domain.ErrAIOutput}, nil)

	_, err := p.ExtractCV(context.Background(), "cv.txt", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = p.ExtractCV(context.Background(), "cv.txt", "text")
	assert.ErrorIs(t, err, domain.ErrAIOutput)
}

func TestPassThroughFlows(t *testing.T) {
	a := &fakeAssistant{improved: "Better", skills: []string{"Docker"}}
	p := newTestProcessor(a, nil)

	out, err := p.ImproveText(context.Background(), "good", "formal")
	require.NoError(t, err)
	assert.Equal(t, "Better", out)

	skills, err := p.SuggestSkills(context.Background(), "SRE", []string{"Go"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker"}, skills)
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := newTestProcessor(nil, nil, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))

	first, err := p.SaveCV(ctx, "  Backend CV  ", sampleCV())
	require.NoError(t, err)
	assert.Equal(t, "Backend CV", first.Name)

	second, err := p.SaveCV(ctx, "", sampleCV())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", second.Name)

	third, err := p.SaveCV(ctx, "", model.CV{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled CV", third.Name)

	list, err := p.ListCVs(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[2].ID)

	got, err := p.GetCV(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, sampleCV(), got.Data)

	require.NoError(t, p.DeleteCV(ctx, first.ID.String()))
	_, err = p.GetCV(ctx, first.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = p.GetCV(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, p.DeleteCV(ctx, "not-a-uuid"), domain.ErrInvalidInput)
}

func TestRenderPDF_RetriesInvalidOutput(t *testing.T) {
	r := &fakeRenderer{
		outputs: [][]byte{nil, []byte("<html>"), []byte("%PDF-1.7 ...")},
		errs:    []error{errors.New("chrome crashed")},
	}
	p := newTestProcessor(nil, r, WithRenderRetry(3, 0))

	pdf, err := p.RenderPDF(context.Background(), sampleCV())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 ...", string(pdf))
	assert.Equal(t, 3, r.calls)
	assert.Contains(t, r.html, "JANE DOE")
}

func TestRenderPDF_GivesUp(t *testing.T) {
	r := &fakeRenderer{errs: []error{errors.New("a"), errors.New("b")}}
	p := newTestProcessor(nil, r, WithRenderRetry(2, 0))

	_, err := p.RenderPDF(context.Background(), sampleCV())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, 2, r.calls)
}
