// Package reconcile guards factual CV data against generative rewrites.
//
// After a full-CV rewrite, Reconcile takes the rewritten candidate and forces
// every protected field (contact details, employers, institutions, dates,
// ids) back to the pre-rewrite original, while prose fields (summary,
// descriptions, skills) keep the rewritten text. DetectModifiedFields reports
// which protected fields the rewrite tried to change.
package reconcile

import (
	"fmt"

	"cv-forge/internal/model"
)

// MatchMode selects how list entries of the original and candidate are paired.
type MatchMode int

const (
	// MatchByIndex pairs entries positionally.
	MatchByIndex MatchMode = iota
	// MatchByID pairs entries with equal ids. Original entries without a
	// counterpart are kept untouched; unmatched candidate entries are extras.
	MatchByID
)

// ExtraPolicy decides what happens to candidate entries with no original
// counterpart.
type ExtraPolicy int

const (
	// KeepExtra passes unmatched candidate entries through unchanged.
	KeepExtra ExtraPolicy = iota
	// DropExtra discards them.
	DropExtra
)

type Reconciler struct {
	classify Classifier
	match    MatchMode
	extras   ExtraPolicy
}

type Option func(*Reconciler)

func WithClassifier(c Classifier) Option {
	return func(r *Reconciler) {
		if c != nil {
			r.classify = c
		}
	}
}

func WithMatchMode(m MatchMode) Option {
	return func(r *Reconciler) { r.match = m }
}

func WithExtraPolicy(p ExtraPolicy) Option {
	return func(r *Reconciler) { r.extras = p }
}

// New returns a Reconciler. With no options it matches by index, keeps extra
// candidate entries and uses IsJobTitleChangeRequested.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{classify: IsJobTitleChangeRequested}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var std = New()

// Reconcile runs the default Reconciler.
func Reconcile(original, candidate model.CV, instruction string) model.CV {
	return std.Reconcile(original, candidate, instruction)
}

// DetectModifiedFields runs the default Reconciler's reporter.
func DetectModifiedFields(original, candidate model.CV, instruction string) []string {
	return std.DetectModifiedFields(original, candidate, instruction)
}

// TitleChangeRequested reports how the configured classifier reads instruction.
func (r *Reconciler) TitleChangeRequested(instruction string) bool {
	return r.classify(instruction)
}

// Reconcile returns a deep copy of candidate with protected fields restored
// from original. Neither input is modified.
func (r *Reconciler) Reconcile(original, candidate model.CV, instruction string) model.CV {
	titleChange := r.classify(instruction)
	out := candidate.Clone()

	pi := candidate.PersonalInfo
	restore(personalInfoFields, &original.PersonalInfo, &pi, titleChange)
	out.PersonalInfo = pi

	out.Experience = mergeList(r, original.Experience, candidate.Experience,
		expID, func(o, c model.ExperienceEntry) model.ExperienceEntry {
			restore(experienceFields, &o, &c, titleChange)
			return c
		})
	out.Education = mergeList(r, original.Education, candidate.Education,
		eduID, func(o, c model.EducationEntry) model.EducationEntry {
			restore(educationFields, &o, &c, titleChange)
			return c
		})
	out.Qualifications = mergeList(r, original.Qualifications, candidate.Qualifications,
		qualID, func(o, c model.QualificationEntry) model.QualificationEntry {
			restore(qualificationFields, &o, &c, titleChange)
			return c
		})

	// summary and skills come from candidate via Clone.
	return out
}

// DetectModifiedFields lists the field paths where candidate differs from
// original, leaving out fields the policy always lets change. Entries are
// paired the same way Reconcile pairs them; unpaired entries are not reported.
func (r *Reconciler) DetectModifiedFields(original, candidate model.CV, instruction string) []string {
	titleChange := r.classify(instruction)
	modified := []string{}

	modified = changed(modified, "personalInfo", personalInfoFields, &original.PersonalInfo, &candidate.PersonalInfo, titleChange)

	for _, p := range r.pairs(ids(original.Experience, expID), ids(candidate.Experience, expID)) {
		if p.orig < 0 || p.cand < 0 {
			continue
		}
		modified = changed(modified, fmt.Sprintf("experience[%d]", p.orig), experienceFields,
			&original.Experience[p.orig], &candidate.Experience[p.cand], titleChange)
	}
	for _, p := range r.pairs(ids(original.Education, eduID), ids(candidate.Education, eduID)) {
		if p.orig < 0 || p.cand < 0 {
			continue
		}
		modified = changed(modified, fmt.Sprintf("education[%d]", p.orig), educationFields,
			&original.Education[p.orig], &candidate.Education[p.cand], titleChange)
	}
	for _, p := range r.pairs(ids(original.Qualifications, qualID), ids(candidate.Qualifications, qualID)) {
		if p.orig < 0 || p.cand < 0 {
			continue
		}
		modified = changed(modified, fmt.Sprintf("qualifications[%d]", p.orig), qualificationFields,
			&original.Qualifications[p.orig], &candidate.Qualifications[p.cand], titleChange)
	}
	return modified
}

func expID(e model.ExperienceEntry) string     { return e.ID }
func eduID(e model.EducationEntry) string      { return e.ID }
func qualID(q model.QualificationEntry) string { return q.ID }

func ids[T any](entries []T, id func(T) string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = id(e)
	}
	return out
}

// pair holds indexes into the original and candidate lists; -1 means absent.
type pair struct {
	orig, cand int
}

func (r *Reconciler) pairs(origIDs, candIDs []string) []pair {
	if r.match == MatchByID {
		return pairByID(origIDs, candIDs)
	}
	n := len(origIDs)
	if len(candIDs) > n {
		n = len(candIDs)
	}
	out := make([]pair, n)
	for i := range out {
		out[i] = pair{orig: -1, cand: -1}
		if i < len(origIDs) {
			out[i].orig = i
		}
		if i < len(candIDs) {
			out[i].cand = i
		}
	}
	return out
}

// pairByID keeps the original order; candidate entries that matched nothing
// follow in candidate order. A candidate entry is used at most once.
func pairByID(origIDs, candIDs []string) []pair {
	byID := make(map[string][]int, len(candIDs))
	for j, id := range candIDs {
		byID[id] = append(byID[id], j)
	}
	used := make([]bool, len(candIDs))
	out := make([]pair, 0, len(origIDs)+len(candIDs))
	for i, id := range origIDs {
		p := pair{orig: i, cand: -1}
		if js := byID[id]; id != "" && len(js) > 0 {
			p.cand = js[0]
			byID[id] = js[1:]
			used[p.cand] = true
		}
		out = append(out, p)
	}
	for j := range candIDs {
		if !used[j] {
			out = append(out, pair{orig: -1, cand: j})
		}
	}
	return out
}

// mergeList never deletes or reorders original entries: an original entry
// without a candidate counterpart is copied as-is.
func mergeList[T any](r *Reconciler, orig, cand []T, id func(T) string, merge func(o, c T) T) []T {
	out := make([]T, 0, len(orig))
	for _, p := range r.pairs(ids(orig, id), ids(cand, id)) {
		switch {
		case p.orig >= 0 && p.cand >= 0:
			out = append(out, merge(orig[p.orig], cand[p.cand]))
		case p.orig >= 0:
			out = append(out, orig[p.orig])
		case r.extras == KeepExtra:
			out = append(out, cand[p.cand])
		}
	}
	return out
}
