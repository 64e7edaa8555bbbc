package model

// Go models that match cv.schema.json. Field names are the wire format shared
// with the generative service and with persisted CVs; do not rename them.

type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Address  string `json:"address"`
	Website  string `json:"website,omitempty"`
}

type ExperienceEntry struct {
	ID        string `json:"id"`
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	// Description is multiline; each line is rendered as a bullet.
	Description string `json:"description"`
}

type EducationEntry struct {
	ID             string `json:"id"`
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationDate string `json:"graduationDate"`
	Description    string `json:"description,omitempty"`
}

type QualificationEntry struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

type CV struct {
	PersonalInfo   PersonalInfo         `json:"personalInfo"`
	Summary        string               `json:"summary"`
	Experience     []ExperienceEntry    `json:"experience"`
	Education      []EducationEntry     `json:"education"`
	Skills         []string             `json:"skills"`
	Qualifications []QualificationEntry `json:"qualifications"`
}

// Clone returns a deep copy of cv. Nil sections come back as empty slices so
// the JSON form always carries arrays.
func (cv CV) Clone() CV {
	out := cv
	out.Experience = append(make([]ExperienceEntry, 0, len(cv.Experience)), cv.Experience...)
	out.Education = append(make([]EducationEntry, 0, len(cv.Education)), cv.Education...)
	out.Skills = append(make([]string, 0, len(cv.Skills)), cv.Skills...)
	out.Qualifications = append(make([]QualificationEntry, 0, len(cv.Qualifications)), cv.Qualifications...)
	return out
}

// DefaultCV is the placeholder record a new user starts editing from.
func DefaultCV() CV {
	return CV{
		PersonalInfo: PersonalInfo{
			Name:     "Your Name",
			Title:    "Aspiring Professional",
			Email:    "your.email@example.com",
			Phone:    "(123) 456-7890",
			LinkedIn: "linkedin.com/in/yourprofile",
			GitHub:   "github.com/yourusername",
			Address:  "City, State",
			Website:  "yourportfolio.com",
		},
		Summary: "A brief and compelling summary about yourself, your career goals, and what you bring to the table. " +
			"Highlight your key achievements and skills. Aim for 2-4 sentences.",
		Experience: []ExperienceEntry{
			{
				ID:        "exp1",
				JobTitle:  "Relevant Job Title",
				Company:   "Company Name",
				Location:  "City, State",
				StartDate: "Month YYYY",
				EndDate:   "Present",
				Description: "- Achieved X by implementing Y, resulting in Z% improvement.\n" +
					"- Led a team of N to deliver project P ahead of schedule.\n" +
					"- Developed and maintained Q using technologies R, S, and T.",
			},
		},
		Education: []EducationEntry{
			{
				ID:             "edu1",
				Degree:         "Degree Name (e.g., B.S. in Computer Science)",
				Institution:    "University Name",
				Location:       "City, State",
				GraduationDate: "Month YYYY",
				Description:    "Optional: Relevant coursework, honors, GPA (if noteworthy).",
			},
		},
		Skills: []string{"Skill 1", "Skill 2", "JavaScript", "React", "Next.js", "Tailwind CSS", "Problem Solving"},
		Qualifications: []QualificationEntry{
			{ID: "qual1", Date: "YYYY", Name: "Certification Name", Issuer: "Issuing Organization"},
		},
	}
}
