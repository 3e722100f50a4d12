package profile

import (
	"fmt"
	"strings"
)

// RawRequest is a match request after preference and profile fallbacks have
// been applied, but before any parsing.
type RawRequest struct {
	WorkType      string
	Location      string
	Domain        string
	Qualification string
	Experience    string
	SalaryRange   string
	AppliedJobIDs []int64
}

// CandidateQuery is the normalized form the match engine ranks against.
// Text fields are lower-cased and trimmed; an empty field imposes no filter.
type CandidateQuery struct {
	WorkType       string
	Location       string
	Domain         string
	Qualification  string
	ExperienceText string

	// ExpectedSalary is nil when no usable salary was given.
	ExpectedSalary *float64
	// ExperienceYears is nil when the experience text had no digits.
	ExperienceYears *int

	Excluded map[int64]struct{}
}

func Normalize(raw RawRequest) CandidateQuery {
	q := CandidateQuery{
		WorkType:       clean(raw.WorkType),
		Location:       clean(raw.Location),
		Domain:         clean(raw.Domain),
		Qualification:  clean(raw.Qualification),
		ExperienceText: clean(raw.Experience),
		Excluded:       make(map[int64]struct{}, len(raw.AppliedJobIDs)),
	}
	if v, ok := ParseExpectedSalary(raw.SalaryRange); ok {
		q.ExpectedSalary = &v
	}
	if v, ok := ParseExperienceYears(q.ExperienceText); ok {
		q.ExperienceYears = &v
	}
	for _, id := range raw.AppliedJobIDs {
		q.Excluded[id] = struct{}{}
	}
	return q
}

// CombinedText is the labelled text embedded for the candidate.
func (q CandidateQuery) CombinedText() string {
	return fmt.Sprintf("Work Type: %s, Location: %s, Experience: %s, Qualification: %s, Domain: %s",
		q.WorkType, q.Location, q.ExperienceText, q.Qualification, q.Domain)
}

func (q CandidateQuery) IsExcluded(jobID int64) bool {
	_, ok := q.Excluded[jobID]
	return ok
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
