package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"cv-forge/internal/model"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"go.uber.org/zap"
)

//go:embed templates/cv.html
var cvTemplateSrc string

var cvTemplate = template.Must(template.New("cv").Parse(cvTemplateSrc))

type itemView struct {
	Dates    string
	Title    string
	Subtitle string
	Bullets  []template.HTML
}

type pageView struct {
	DocTitle         string
	Name             string
	Title            string
	Contacts         []string
	Summary          string
	Experience       []itemView
	Education        []itemView
	KeySkills        []string
	AdditionalSkills []string
	Qualifications   []itemView
}

// inlineMarkdown knows only paragraphs and inline emphasis, code spans and
// links. Lists, headings and raw HTML stay literal text and get escaped.
var inlineMarkdown = goldmark.New(goldmark.WithParser(parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(
		util.Prioritized(parser.NewCodeSpanParser(), 100),
		util.Prioritized(parser.NewLinkParser(), 200),
		util.Prioritized(parser.NewEmphasisParser(), 500),
	),
)))

// bullets turns a multi-line description into list items. Blank lines are
// skipped and a leading "- " is dropped; the rest is rendered as inline
// markdown so **bold** and links survive into the PDF.
func bullets(desc string) []template.HTML {
	var out []template.HTML
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimPrefix(line, "- ")
		out = append(out, renderInline(line))
	}
	return out
}

// renderInline renders the inline content of one line without a paragraph
// wrapper.
func renderInline(line string) template.HTML {
	src := []byte(line)
	doc := inlineMarkdown.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	for para := doc.FirstChild(); para != nil; para = para.NextSibling() {
		for n := para.FirstChild(); n != nil; n = n.NextSibling() {
			if err := inlineMarkdown.Renderer().Render(&buf, src, n); err != nil {
				return template.HTML(template.HTMLEscapeString(line))
			}
		}
	}
	return template.HTML(buf.String())
}

// splitSkills halves skills, the first half taking the extra entry.
func splitSkills(skills []string) (key, additional []string) {
	half := int(math.Ceil(float64(len(skills)) / 2))
	return skills[:half], skills[half:]
}

func newPageView(cv model.CV) pageView {
	pi := cv.PersonalInfo
	v := pageView{
		Name:    strings.ToUpper(pi.Name),
		Title:   pi.Title,
		Summary: cv.Summary,
	}

	v.DocTitle = "CV"
	if pi.Name != "" {
		v.DocTitle = pi.Name
	}
	if pi.Title != "" {
		v.DocTitle += " - " + pi.Title
	}

	for _, c := range []struct{ label, value string }{
		{"LinkedIn", pi.LinkedIn},
		{"Phone", pi.Phone},
		{"Email", pi.Email},
		{"Location", pi.Address},
	} {
		if c.value != "" {
			v.Contacts = append(v.Contacts, c.label+": "+c.value)
		}
	}

	for _, e := range cv.Experience {
		sub := e.Company
		if e.Location != "" {
			sub += ", " + e.Location
		}
		v.Experience = append(v.Experience, itemView{
			Dates:    e.StartDate + " - " + e.EndDate,
			Title:    e.JobTitle,
			Subtitle: sub,
			Bullets:  bullets(e.Description),
		})
	}
	for _, e := range cv.Education {
		v.Education = append(v.Education, itemView{
			Dates:    e.GraduationDate,
			Title:    e.Institution,
			Subtitle: e.Degree,
			Bullets:  bullets(e.Description),
		})
	}
	for _, q := range cv.Qualifications {
		v.Qualifications = append(v.Qualifications, itemView{Dates: q.Date, Title: q.Name, Subtitle: q.Issuer})
	}
	v.KeySkills, v.AdditionalSkills = splitSkills(cv.Skills)
	return v
}

// RenderHTML renders cv into the single-page print template.
func (p *Processor) RenderHTML(cv model.CV) (string, error) {
	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, newPageView(cv)); err != nil {
		return "", fmt.Errorf("render cv template: %w", err)
	}
	return buf.String(), nil
}

// RenderPDF renders cv to HTML and prints it to an A4 PDF, retrying the
// print step with exponential backoff.
func (p *Processor) RenderPDF(ctx context.Context, cv model.CV) ([]byte, error) {
	html, err := p.RenderHTML(cv)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	var renderErr error
	for i := 0; i < p.renderAttempts; i++ {
		pdf, renderErr = p.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if bytes.HasPrefix(pdf, []byte("%PDF")) {
				return pdf, nil
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
		}
		p.log.Warn("pdf render attempt failed", zap.Int("attempt", i+1), zap.Error(renderErr))
		if i < p.renderAttempts-1 {
			select {
			case <-time.After(p.renderBackoff * time.Duration(1<<i)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("render pdf after %d attempts: %w", p.renderAttempts, renderErr)
}
