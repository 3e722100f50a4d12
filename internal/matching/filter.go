package matching

import (
	"strconv"
	"strings"

	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/profile"
)

const (
	salaryBandLow  = 0.8
	salaryBandHigh = 1.5
)

// Filter is one hard constraint. A filter whose Enabled reports false is
// skipped; otherwise only jobs for which Keep reports true survive it.
type Filter struct {
	Name    string
	Enabled func(q *profile.CandidateQuery) bool
	Keep    func(q *profile.CandidateQuery, job *corpus.JobRecord) bool
}

// Step records how one filter narrowed the candidate set.
type Step struct {
	Filter  string
	Initial int
	Dropped int
	Left    int
}

// DefaultFilters returns the hard filters in the order they are applied.
func DefaultFilters() []Filter {
	return []Filter{
		WorkTypeFilter(),
		LocationFilter(),
		SalaryFilter(),
		ExperienceFilter(),
		AppliedFilter(),
	}
}

func WorkTypeFilter() Filter {
	return Filter{
		Name:    "work_type",
		Enabled: func(q *profile.CandidateQuery) bool { return q.WorkType != "" },
		Keep: func(q *profile.CandidateQuery, job *corpus.JobRecord) bool {
			return strings.ToLower(strings.TrimSpace(job.WorkType)) == q.WorkType
		},
	}
}

// LocationFilter keeps jobs whose location contains the candidate's location.
// A job with no location never matches.
func LocationFilter() Filter {
	return Filter{
		Name:    "location",
		Enabled: func(q *profile.CandidateQuery) bool { return q.Location != "" },
		Keep: func(q *profile.CandidateQuery, job *corpus.JobRecord) bool {
			return strings.Contains(strings.ToLower(job.JobLocation), q.Location)
		},
	}
}

// SalaryFilter keeps jobs whose average salary lies in [0.8x, 1.5x] of the
// expected salary. Job salaries are held in thousands.
func SalaryFilter() Filter {
	return Filter{
		Name:    "salary",
		Enabled: func(q *profile.CandidateQuery) bool { return q.ExpectedSalary != nil },
		Keep: func(q *profile.CandidateQuery, job *corpus.JobRecord) bool {
			if job.AverageSalaryK == nil {
				return false
			}
			avg := *job.AverageSalaryK * 1000
			expected := *q.ExpectedSalary
			return avg >= expected*salaryBandLow && avg <= expected*salaryBandHigh
		},
	}
}

// ExperienceFilter keeps jobs whose "<min> to <max> years" requirement covers
// the candidate's years. Requirements that do not parse never match.
func ExperienceFilter() Filter {
	return Filter{
		Name:    "experience",
		Enabled: func(q *profile.CandidateQuery) bool { return q.ExperienceYears != nil },
		Keep: func(q *profile.CandidateQuery, job *corpus.JobRecord) bool {
			lo, hi, ok := ParseExperienceRange(job.Experience)
			if !ok {
				return false
			}
			years := *q.ExperienceYears
			return lo <= years && years <= hi
		},
	}
}

func AppliedFilter() Filter {
	return Filter{
		Name:    "applied",
		Enabled: func(q *profile.CandidateQuery) bool { return len(q.Excluded) > 0 },
		Keep: func(q *profile.CandidateQuery, job *corpus.JobRecord) bool {
			return !q.IsExcluded(job.JobID)
		},
	}
}

// ParseExperienceRange reads "2 to 5 years" as (2, 5).
func ParseExperienceRange(s string) (lo, hi int, ok bool) {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "years", "")
	s = strings.ReplaceAll(s, "year", "")
	parts := strings.Split(s, "to")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hi, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// applyFilters narrows the candidate positions through each enabled filter in
// turn. The input slice is reused for the output.
func applyFilters(filters []Filter, q *profile.CandidateQuery, c *corpus.Corpus, positions []int) ([]int, []Step) {
	steps := make([]Step, 0, len(filters))
	for _, f := range filters {
		if !f.Enabled(q) {
			continue
		}
		initial := len(positions)
		kept := positions[:0]
		for _, pos := range positions {
			if f.Keep(q, c.At(pos)) {
				kept = append(kept, pos)
			}
		}
		positions = kept
		steps = append(steps, Step{Filter: f.Name, Initial: initial, Dropped: initial - len(positions), Left: len(positions)})
	}
	return positions, steps
}
