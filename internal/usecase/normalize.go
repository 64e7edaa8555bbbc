package usecase

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"cv-forge/internal/model"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newEntryID returns prefix followed by a ULID, e.g. "exp01J9...".
func newEntryID(prefix string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return prefix + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Normalize fills in missing or duplicate entry ids and cleans up the skill
// list: entries are trimmed, blanks dropped and case-insensitive duplicates
// removed, keeping the first spelling.
func Normalize(cv model.CV) model.CV {
	out := cv.Clone()

	seen := map[string]bool{}
	for i := range out.Experience {
		out.Experience[i].ID = uniqueID(seen, out.Experience[i].ID, "exp")
	}
	seen = map[string]bool{}
	for i := range out.Education {
		out.Education[i].ID = uniqueID(seen, out.Education[i].ID, "edu")
	}
	seen = map[string]bool{}
	for i := range out.Qualifications {
		out.Qualifications[i].ID = uniqueID(seen, out.Qualifications[i].ID, "qual")
	}

	skills := make([]string, 0, len(out.Skills))
	seenSkill := map[string]bool{}
	for _, s := range out.Skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seenSkill[key] {
			continue
		}
		seenSkill[key] = true
		skills = append(skills, s)
	}
	out.Skills = skills
	return out
}

func uniqueID(seen map[string]bool, id, prefix string) string {
	id = strings.TrimSpace(id)
	if id == "" || seen[id] {
		id = newEntryID(prefix)
	}
	seen[id] = true
	return id
}
