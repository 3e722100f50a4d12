package matching

import (
	"math"

	"github.com/fadilmartias/job-matcher/internal/dto"
)

const unknownOrg = "Unknown"

// Assemble maps ranked jobs to the response rows, rounding the score to two
// decimals.
func Assemble(ranked []Ranked) []dto.MatchResult {
	out := make([]dto.MatchResult, 0, len(ranked))
	for _, r := range ranked {
		j := r.Job
		org := j.OrgName
		if org == "" {
			org = unknownOrg
		}
		out = append(out, dto.MatchResult{
			JobID:          j.JobID,
			JobTitle:       j.JobTitle,
			JobDescription: j.JobDesc,
			MatchScore:     RoundScore(r.Score),
			Salary:         j.Salary,
			Location:       j.JobLocation,
			Experience:     j.Experience,
			DatePosted:     j.DatePosted,
			WorkType:       j.WorkType,
			OrgName:        org,
			ApplyLink:      j.ApplyLink,
		})
	}
	return out
}

func RoundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
