package reconcile

import "cv-forge/internal/model"

type rule int

const (
	// protected fields always carry the original value.
	protected rule = iota
	// prose fields take the candidate value unless it is empty.
	prose
	// jobTitle fields take the candidate value only when the instruction
	// asks for a title change.
	jobTitle
	// free fields take the candidate value unconditionally but still show up
	// in the modified-fields report.
	free
)

type field[T any] struct {
	name string
	rule rule
	ref  func(*T) *string
}

var personalInfoFields = []field[model.PersonalInfo]{
	{"name", protected, func(p *model.PersonalInfo) *string { return &p.Name }},
	{"title", free, func(p *model.PersonalInfo) *string { return &p.Title }},
	{"email", protected, func(p *model.PersonalInfo) *string { return &p.Email }},
	{"phone", protected, func(p *model.PersonalInfo) *string { return &p.Phone }},
	{"linkedin", protected, func(p *model.PersonalInfo) *string { return &p.LinkedIn }},
	{"github", protected, func(p *model.PersonalInfo) *string { return &p.GitHub }},
	{"address", protected, func(p *model.PersonalInfo) *string { return &p.Address }},
	{"website", protected, func(p *model.PersonalInfo) *string { return &p.Website }},
}

var experienceFields = []field[model.ExperienceEntry]{
	{"id", protected, func(e *model.ExperienceEntry) *string { return &e.ID }},
	{"jobTitle", jobTitle, func(e *model.ExperienceEntry) *string { return &e.JobTitle }},
	{"company", protected, func(e *model.ExperienceEntry) *string { return &e.Company }},
	{"location", protected, func(e *model.ExperienceEntry) *string { return &e.Location }},
	{"startDate", protected, func(e *model.ExperienceEntry) *string { return &e.StartDate }},
	{"endDate", protected, func(e *model.ExperienceEntry) *string { return &e.EndDate }},
	{"description", prose, func(e *model.ExperienceEntry) *string { return &e.Description }},
}

var educationFields = []field[model.EducationEntry]{
	{"id", protected, func(e *model.EducationEntry) *string { return &e.ID }},
	{"degree", protected, func(e *model.EducationEntry) *string { return &e.Degree }},
	{"institution", protected, func(e *model.EducationEntry) *string { return &e.Institution }},
	{"location", protected, func(e *model.EducationEntry) *string { return &e.Location }},
	{"graduationDate", protected, func(e *model.EducationEntry) *string { return &e.GraduationDate }},
	{"description", prose, func(e *model.EducationEntry) *string { return &e.Description }},
}

// Qualification names may only get formatting touch-ups, which are not
// distinguished from real edits, so every field is protected.
var qualificationFields = []field[model.QualificationEntry]{
	{"id", protected, func(q *model.QualificationEntry) *string { return &q.ID }},
	{"date", protected, func(q *model.QualificationEntry) *string { return &q.Date }},
	{"name", protected, func(q *model.QualificationEntry) *string { return &q.Name }},
	{"issuer", protected, func(q *model.QualificationEntry) *string { return &q.Issuer }},
}

// restore overwrites out's fields from orig according to the rule table.
func restore[T any](fields []field[T], orig, out *T, titleChange bool) {
	for _, f := range fields {
		o, c := f.ref(orig), f.ref(out)
		switch f.rule {
		case protected:
			*c = *o
		case prose:
			if *c == "" {
				*c = *o
			}
		case jobTitle:
			if !titleChange {
				*c = *o
			}
		}
	}
}

// changed appends prefix.field for every field that differs and is not
// always permitted to change.
func changed[T any](dst []string, prefix string, fields []field[T], orig, cand *T, titleChange bool) []string {
	for _, f := range fields {
		if f.rule == prose || (f.rule == jobTitle && titleChange) {
			continue
		}
		if *f.ref(orig) != *f.ref(cand) {
			dst = append(dst, prefix+"."+f.name)
		}
	}
	return dst
}
